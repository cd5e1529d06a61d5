package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/inventory/dto"
	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type RestockCommand struct {
	ItemID   string
	Quantity int
	Actor    shared.Actor
}

type AdjustStockCommand struct {
	ItemID string
	// Level is the counted stock; negative counts clamp to zero.
	Level int
	Actor shared.Actor
}

type StockChangeResult struct {
	Item     *dto.ItemDTO
	Movement *dto.MovementDTO
}

// stockMutation changes an item's stock and returns the movement to record.
type stockMutation func(item *inventory.Item, actor shared.Actor, clock biztime.Clock) (*inventory.Movement, error)

// stockWriter is the write path Restock and AdjustStock share: read the
// item, mutate it, write it and its movement row in one transaction.
type stockWriter struct {
	itemRepo  inventory.Repository
	txMgr     common.Transactor
	publisher pubsub.ChangePublisher
	clock     biztime.Clock
	logger    logger.Interface
}

func (w *stockWriter) apply(ctx context.Context, itemID string, actor shared.Actor, mutate stockMutation) (*StockChangeResult, error) {
	var (
		item     *inventory.Item
		movement *inventory.Movement
	)
	txErr := w.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		i, err := w.itemRepo.GetByID(txCtx, itemID)
		if err != nil {
			return err
		}
		m, err := mutate(i, actor, w.clock)
		if err != nil {
			return err
		}
		if err := w.itemRepo.Update(txCtx, i); err != nil {
			return err
		}
		if err := w.itemRepo.RecordMovement(txCtx, m); err != nil {
			return err
		}
		item, movement = i, m
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	common.PublishChange(ctx, w.publisher, w.logger, itemChanged(item.ID()))

	return &StockChangeResult{
		Item:     dto.ToItemDTO(item),
		Movement: dto.ToMovementDTOs([]*inventory.Movement{movement})[0],
	}, nil
}

type RestockUseCase struct {
	writer *stockWriter
	logger logger.Interface
}

func NewRestockUseCase(
	itemRepo inventory.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *RestockUseCase {
	return &RestockUseCase{
		writer: &stockWriter{itemRepo: itemRepo, txMgr: txMgr, publisher: publisher, clock: biztime.NowUTC, logger: logger},
		logger: logger,
	}
}

func (uc *RestockUseCase) Execute(ctx context.Context, cmd RestockCommand) (*StockChangeResult, error) {
	uc.logger.Infow("executing restock use case", "item_id", cmd.ItemID, "quantity", cmd.Quantity)

	if cmd.ItemID == "" {
		return nil, errors.NewValidationError("item ID is required")
	}
	if cmd.Quantity < 1 {
		return nil, errors.NewValidationError(inventory.ErrInvalidQuantity.Error())
	}
	if err := cmd.Actor.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	result, err := uc.writer.apply(ctx, cmd.ItemID, cmd.Actor,
		func(item *inventory.Item, actor shared.Actor, clock biztime.Clock) (*inventory.Movement, error) {
			now := clock()
			applied, err := item.Restock(cmd.Quantity, now)
			if err != nil {
				return nil, err
			}
			return inventory.NewMovement(item, inventory.MovementRestock, cmd.Quantity, applied, "", actor, now), nil
		})
	if err != nil {
		uc.logger.Errorw("failed to restock item", "item_id", cmd.ItemID, "error", err)
		return nil, translateError(err, "failed to restock item")
	}

	uc.logger.Infow("item restocked successfully", "item_id", cmd.ItemID, "in_stock", result.Item.InStock)
	return result, nil
}

type AdjustStockUseCase struct {
	writer *stockWriter
	logger logger.Interface
}

func NewAdjustStockUseCase(
	itemRepo inventory.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		writer: &stockWriter{itemRepo: itemRepo, txMgr: txMgr, publisher: publisher, clock: biztime.NowUTC, logger: logger},
		logger: logger,
	}
}

func (uc *AdjustStockUseCase) Execute(ctx context.Context, cmd AdjustStockCommand) (*StockChangeResult, error) {
	uc.logger.Infow("executing adjust stock use case", "item_id", cmd.ItemID, "level", cmd.Level)

	if cmd.ItemID == "" {
		return nil, errors.NewValidationError("item ID is required")
	}
	if err := cmd.Actor.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	result, err := uc.writer.apply(ctx, cmd.ItemID, cmd.Actor,
		func(item *inventory.Item, actor shared.Actor, clock biztime.Clock) (*inventory.Movement, error) {
			now := clock()
			requested := cmd.Level - item.InStock()
			applied := item.AdjustTo(cmd.Level, now)
			return inventory.NewMovement(item, inventory.MovementAdjust, requested, applied, "", actor, now), nil
		})
	if err != nil {
		uc.logger.Errorw("failed to adjust stock", "item_id", cmd.ItemID, "error", err)
		return nil, translateError(err, "failed to adjust stock")
	}

	if result.Movement.Clamped {
		uc.logger.Warnw("negative stock count clamped to zero", "item_id", cmd.ItemID, "level", cmd.Level)
	}

	uc.logger.Infow("stock adjusted successfully", "item_id", cmd.ItemID, "in_stock", result.Item.InStock)
	return result, nil
}
