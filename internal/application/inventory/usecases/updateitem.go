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

// UpdateItemCommand changes catalogue fields. Stock levels change only
// through Restock, AdjustStock or a supply.
type UpdateItemCommand struct {
	ItemID   string
	Name     *string
	Category *string
	SKU      *string
	MinStock *int
	Active   *bool
	Actor    shared.Actor
}

type UpdateItemUseCase struct {
	itemRepo  inventory.Repository
	txMgr     common.Transactor
	publisher pubsub.ChangePublisher
	clock     biztime.Clock
	logger    logger.Interface
}

func NewUpdateItemUseCase(
	itemRepo inventory.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *UpdateItemUseCase {
	return &UpdateItemUseCase{
		itemRepo:  itemRepo,
		txMgr:     txMgr,
		publisher: publisher,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *UpdateItemUseCase) Execute(ctx context.Context, cmd UpdateItemCommand) (*dto.ItemDTO, error) {
	uc.logger.Infow("executing update item use case", "item_id", cmd.ItemID)

	if cmd.ItemID == "" {
		return nil, errors.NewValidationError("item ID is required")
	}
	if err := cmd.Actor.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	update := inventory.ItemUpdate{
		Name:     cmd.Name,
		SKU:      cmd.SKU,
		MinStock: cmd.MinStock,
		Active:   cmd.Active,
	}
	if cmd.Category != nil {
		category, err := inventory.NewCategory(*cmd.Category)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		update.Category = &category
	}

	var item *inventory.Item
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		i, err := uc.itemRepo.GetByID(txCtx, cmd.ItemID)
		if err != nil {
			return err
		}
		now := uc.clock()
		changes, err := i.Update(update, now)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		item = i
		if len(changes) == 0 {
			return nil
		}
		if err := uc.itemRepo.Update(txCtx, i); err != nil {
			return err
		}
		return uc.itemRepo.RecordMovement(txCtx, inventory.NewUpdateMovement(i, changes, cmd.Actor, now))
	})
	if txErr != nil {
		uc.logger.Errorw("failed to update inventory item", "item_id", cmd.ItemID, "error", txErr)
		return nil, translateError(txErr, "failed to update inventory item")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, itemChanged(item.ID()))

	uc.logger.Infow("inventory item updated successfully", "item_id", item.ID())
	return dto.ToItemDTO(item), nil
}
