package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/inventory/dto"
)

type AddItemExecutor interface {
	Execute(ctx context.Context, cmd AddItemCommand) (*dto.ItemDTO, error)
}

type UpdateItemExecutor interface {
	Execute(ctx context.Context, cmd UpdateItemCommand) (*dto.ItemDTO, error)
}

type RestockExecutor interface {
	Execute(ctx context.Context, cmd RestockCommand) (*StockChangeResult, error)
}

type AdjustStockExecutor interface {
	Execute(ctx context.Context, cmd AdjustStockCommand) (*StockChangeResult, error)
}

type ListItemsExecutor interface {
	Execute(ctx context.Context, query ListItemsQuery) ([]*dto.ItemDTO, error)
	LowStock(ctx context.Context) ([]*dto.ItemDTO, error)
}

type GetItemExecutor interface {
	Execute(ctx context.Context, itemID string) (*dto.ItemDTO, error)
}

type ListMovementsExecutor interface {
	Execute(ctx context.Context, query ListMovementsQuery) ([]*dto.MovementDTO, error)
}
