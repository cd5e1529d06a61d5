package mappers

import (
	"fmt"

	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/mapper"
)

type InventoryMapper interface {
	ToEntity(model *models.InventoryItemModel) (*inventory.Item, error)
	ToModel(entity *inventory.Item) *models.InventoryItemModel
	ToEntities(models []*models.InventoryItemModel) ([]*inventory.Item, error)
	MovementToModel(m *inventory.Movement) *models.InventoryMovementModel
	MovementToEntity(m *models.InventoryMovementModel) *inventory.Movement
}

type InventoryMapperImpl struct{}

func NewInventoryMapper() InventoryMapper {
	return &InventoryMapperImpl{}
}

func (m *InventoryMapperImpl) ToEntity(model *models.InventoryItemModel) (*inventory.Item, error) {
	if model == nil {
		return nil, nil
	}

	item, err := inventory.ReconstructItem(
		model.ID,
		model.Name,
		inventory.Category(model.Category),
		model.SKU,
		model.InStock,
		model.MinStock,
		model.Active,
		model.Version,
		biztime.FromMillis(model.CreatedAt),
		biztime.FromMillis(model.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct inventory item entity: %w", err)
	}
	return item, nil
}

func (m *InventoryMapperImpl) ToModel(entity *inventory.Item) *models.InventoryItemModel {
	if entity == nil {
		return nil
	}
	return &models.InventoryItemModel{
		ID:        entity.ID(),
		Name:      entity.Name(),
		Category:  entity.Category().String(),
		SKU:       entity.SKU(),
		InStock:   entity.InStock(),
		MinStock:  entity.MinStock(),
		Active:    entity.IsActive(),
		Version:   entity.Version(),
		CreatedAt: biztime.ToMillis(entity.CreatedAt()),
		UpdatedAt: biztime.ToMillis(entity.UpdatedAt()),
	}
}

func (m *InventoryMapperImpl) ToEntities(modelList []*models.InventoryItemModel) ([]*inventory.Item, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.InventoryItemModel) string { return model.ID })
}

func (m *InventoryMapperImpl) MovementToModel(mv *inventory.Movement) *models.InventoryMovementModel {
	return &models.InventoryMovementModel{
		ID:         mv.ID,
		ItemID:     mv.ItemID,
		Kind:       string(mv.Kind),
		Requested:  mv.Requested,
		Applied:    mv.Applied,
		StockAfter: mv.StockAfter,
		CallID:     mv.CallID,
		ActorID:    mv.ActorID,
		ActorName:  mv.ActorName,
		Detail:     mv.Detail,
		RecordedAt: biztime.ToMillis(mv.Timestamp),
	}
}

func (m *InventoryMapperImpl) MovementToEntity(mv *models.InventoryMovementModel) *inventory.Movement {
	return &inventory.Movement{
		ID:         mv.ID,
		ItemID:     mv.ItemID,
		Kind:       inventory.MovementKind(mv.Kind),
		Requested:  mv.Requested,
		Applied:    mv.Applied,
		StockAfter: mv.StockAfter,
		CallID:     mv.CallID,
		ActorID:    mv.ActorID,
		ActorName:  mv.ActorName,
		Detail:     mv.Detail,
		Timestamp:  biztime.FromMillis(mv.RecordedAt),
	}
}
