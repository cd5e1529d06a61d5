package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type SupplyEquipmentCommand struct {
	CallID   string
	ItemID   string
	Quantity int
	Actor    shared.Actor
}

type SupplyEquipmentResult struct {
	Call       *dto.CallDTO
	ItemID     string
	Requested  int
	Applied    int
	StockAfter int
}

// Clamped reports whether stock ran out before the full quantity was taken.
func (r *SupplyEquipmentResult) Clamped() bool {
	return -r.Applied != r.Requested
}

// SupplyEquipmentUseCase withdraws stock for a call. The item, the call and
// the movement row are written in one transaction; stock clamps at zero
// while the call records the full requested quantity.
type SupplyEquipmentUseCase struct {
	callRepo  servicecall.Repository
	itemRepo  inventory.Repository
	txMgr     common.Transactor
	publisher pubsub.ChangePublisher
	clock     biztime.Clock
	logger    logger.Interface
}

func NewSupplyEquipmentUseCase(
	callRepo servicecall.Repository,
	itemRepo inventory.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *SupplyEquipmentUseCase {
	return &SupplyEquipmentUseCase{
		callRepo:  callRepo,
		itemRepo:  itemRepo,
		txMgr:     txMgr,
		publisher: publisher,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *SupplyEquipmentUseCase) Execute(ctx context.Context, cmd SupplyEquipmentCommand) (*SupplyEquipmentResult, error) {
	uc.logger.Infow("executing supply equipment use case",
		"call_id", cmd.CallID,
		"item_id", cmd.ItemID,
		"quantity", cmd.Quantity,
	)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid supply equipment command", "error", err)
		return nil, err
	}

	var (
		call     *servicecall.ServiceCall
		movement *inventory.Movement
	)
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		c, err := uc.callRepo.GetByID(txCtx, cmd.CallID)
		if err != nil {
			return err
		}
		item, err := uc.itemRepo.GetByID(txCtx, cmd.ItemID)
		if err != nil {
			return err
		}

		now := uc.clock()
		applied, err := item.Withdraw(cmd.Quantity, now)
		if err != nil {
			return err
		}
		if _, _, err := c.RecordSupply(item.ID(), item.Name(), cmd.Quantity, cmd.Actor, now); err != nil {
			return err
		}

		if err := uc.itemRepo.Update(txCtx, item); err != nil {
			return err
		}
		if err := uc.callRepo.Update(txCtx, c); err != nil {
			return err
		}

		m := inventory.NewMovement(item, inventory.MovementSupply, -cmd.Quantity, applied, c.ID(), cmd.Actor, now)
		if err := uc.itemRepo.RecordMovement(txCtx, m); err != nil {
			return err
		}

		call, movement = c, m
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to supply equipment",
			"call_id", cmd.CallID,
			"item_id", cmd.ItemID,
			"error", txErr,
		)
		return nil, translateError(txErr, "failed to supply equipment")
	}

	if movement.Clamped() {
		uc.logger.Warnw("supply exceeded stock, clamped at zero",
			"call_id", call.ID(),
			"item_id", movement.ItemID,
			"requested", cmd.Quantity,
			"applied", -movement.Applied,
		)
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, callChanged(call))
	common.PublishChange(ctx, uc.publisher, uc.logger, inventoryChanged(movement.ItemID))

	uc.logger.Infow("equipment supplied successfully",
		"call_id", call.ID(),
		"item_id", movement.ItemID,
		"stock_after", movement.StockAfter,
	)

	return &SupplyEquipmentResult{
		Call:       dto.ToCallDTO(call),
		ItemID:     movement.ItemID,
		Requested:  cmd.Quantity,
		Applied:    movement.Applied,
		StockAfter: movement.StockAfter,
	}, nil
}

func (uc *SupplyEquipmentUseCase) validateCommand(cmd SupplyEquipmentCommand) error {
	if cmd.CallID == "" {
		return errors.NewValidationError("call ID is required")
	}
	if cmd.ItemID == "" {
		return errors.NewValidationError("item ID is required")
	}
	if cmd.Quantity < 1 {
		return errors.NewValidationError("quantity must be at least 1")
	}
	if err := cmd.Actor.Validate(); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
