package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/inventory/dto"
	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type ListItemsQuery struct {
	ActiveOnly bool
	// LowOnly keeps active items at or below their minimum stock.
	LowOnly  bool
	Category string
}

type ListItemsUseCase struct {
	itemRepo inventory.Repository
	logger   logger.Interface
}

func NewListItemsUseCase(itemRepo inventory.Repository, logger logger.Interface) *ListItemsUseCase {
	return &ListItemsUseCase{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (uc *ListItemsUseCase) Execute(ctx context.Context, q ListItemsQuery) ([]*dto.ItemDTO, error) {
	filter := inventory.Filter{ActiveOnly: q.ActiveOnly, LowOnly: q.LowOnly}
	if q.Category != "" {
		category, err := inventory.NewCategory(q.Category)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Category = &category
	}

	items, err := uc.itemRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list inventory items", "error", err)
		return nil, translateError(err, "failed to list inventory items")
	}
	return dto.ToItemDTOs(items), nil
}

// LowStock is the reorder report.
func (uc *ListItemsUseCase) LowStock(ctx context.Context) ([]*dto.ItemDTO, error) {
	return uc.Execute(ctx, ListItemsQuery{LowOnly: true})
}

type GetItemUseCase struct {
	itemRepo inventory.Repository
	logger   logger.Interface
}

func NewGetItemUseCase(itemRepo inventory.Repository, logger logger.Interface) *GetItemUseCase {
	return &GetItemUseCase{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (uc *GetItemUseCase) Execute(ctx context.Context, itemID string) (*dto.ItemDTO, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, translateError(err, "failed to get inventory item")
	}
	return dto.ToItemDTO(item), nil
}

type ListMovementsQuery struct {
	// ItemID narrows the ledger to one item; empty lists all items.
	ItemID string
	Limit  int
}

type ListMovementsUseCase struct {
	itemRepo inventory.Repository
	logger   logger.Interface
}

func NewListMovementsUseCase(itemRepo inventory.Repository, logger logger.Interface) *ListMovementsUseCase {
	return &ListMovementsUseCase{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (uc *ListMovementsUseCase) Execute(ctx context.Context, q ListMovementsQuery) ([]*dto.MovementDTO, error) {
	if q.ItemID != "" {
		if _, err := uc.itemRepo.GetByID(ctx, q.ItemID); err != nil {
			return nil, translateError(err, "failed to list movements")
		}
	}

	movements, err := uc.itemRepo.ListMovements(ctx, q.ItemID, q.Limit)
	if err != nil {
		uc.logger.Errorw("failed to list inventory movements", "item_id", q.ItemID, "error", err)
		return nil, translateError(err, "failed to list movements")
	}
	return dto.ToMovementDTOs(movements), nil
}
