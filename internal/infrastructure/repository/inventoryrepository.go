package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/mappers"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

const defaultMovementLimit = 100

type InventoryRepository struct {
	db     *gorm.DB
	mapper mappers.InventoryMapper
	logger logger.Interface
}

func NewInventoryRepository(gdb *gorm.DB, log logger.Interface) *InventoryRepository {
	return &InventoryRepository{
		db:     gdb,
		mapper: mappers.NewInventoryMapper(),
		logger: log,
	}
}

func (r *InventoryRepository) Create(ctx context.Context, item *inventory.Item) error {
	tx := db.GetTxFromContext(ctx, r.db)

	model := r.mapper.ToModel(item)
	model.Version = 1
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create inventory item", "item_id", item.ID(), "error", err)
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	item.SetVersion(model.Version)
	return nil
}

// Update applies a versioned write; a stale version returns
// db.ErrConcurrentModification.
func (r *InventoryRepository) Update(ctx context.Context, item *inventory.Item) error {
	tx := db.GetTxFromContext(ctx, r.db)
	model := r.mapper.ToModel(item)
	nextVersion := item.Version() + 1

	result := tx.Model(&models.InventoryItemModel{}).
		Where("id = ? AND version = ?", model.ID, item.Version()).
		Updates(map[string]any{
			"name":       model.Name,
			"category":   model.Category,
			"sku":        model.SKU,
			"in_stock":   model.InStock,
			"min_stock":  model.MinStock,
			"active":     model.Active,
			"updated_at": model.UpdatedAt,
			"version":    nextVersion,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update inventory item", "item_id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update inventory item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("inventory item %s changed since read: %w", model.ID, db.ErrConcurrentModification)
	}

	item.SetVersion(nextVersion)
	return nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, itemID string) (*inventory.Item, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.InventoryItemModel
	if err := tx.Where("id = ?", itemID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *InventoryRepository) List(ctx context.Context, filter inventory.Filter) ([]*inventory.Item, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	q := tx.Model(&models.InventoryItemModel{})

	if filter.ActiveOnly || filter.LowOnly {
		q = q.Where("active = ?", true)
	}
	if filter.LowOnly {
		q = q.Where("in_stock <= min_stock")
	}
	if filter.Category != nil {
		q = q.Where("category = ?", filter.Category.String())
	}

	var rows []*models.InventoryItemModel
	if err := q.Order("category, name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return r.mapper.ToEntities(rows)
}

func (r *InventoryRepository) RecordMovement(ctx context.Context, m *inventory.Movement) error {
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(r.mapper.MovementToModel(m)).Error; err != nil {
		r.logger.Errorw("failed to record inventory movement", "item_id", m.ItemID, "error", err)
		return fmt.Errorf("failed to record inventory movement: %w", err)
	}
	return nil
}

// ListMovements returns the newest movements first. An empty itemID lists
// movements of every item.
func (r *InventoryRepository) ListMovements(ctx context.Context, itemID string, limit int) ([]*inventory.Movement, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	if limit <= 0 {
		limit = defaultMovementLimit
	}

	q := tx.Model(&models.InventoryMovementModel{})
	if itemID != "" {
		q = q.Where("item_id = ?", itemID)
	}

	var rows []*models.InventoryMovementModel
	if err := q.Order("recorded_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory movements: %w", err)
	}

	out := make([]*inventory.Movement, 0, len(rows))
	for _, m := range rows {
		out = append(out, r.mapper.MovementToEntity(m))
	}
	return out, nil
}
