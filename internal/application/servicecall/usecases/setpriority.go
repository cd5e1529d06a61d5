package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type SetPriorityCommand struct {
	CallID   string
	Priority string
	Actor    shared.Actor
}

type SetPriorityUseCase struct {
	callRepo  servicecall.Repository
	txMgr     common.Transactor
	publisher pubsub.ChangePublisher
	clock     biztime.Clock
	logger    logger.Interface
}

func NewSetPriorityUseCase(
	callRepo servicecall.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *SetPriorityUseCase {
	return &SetPriorityUseCase{
		callRepo:  callRepo,
		txMgr:     txMgr,
		publisher: publisher,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *SetPriorityUseCase) Execute(ctx context.Context, cmd SetPriorityCommand) (*dto.CallDTO, error) {
	uc.logger.Infow("executing set priority use case", "call_id", cmd.CallID, "priority", cmd.Priority)

	if cmd.CallID == "" {
		return nil, errors.NewValidationError("call ID is required")
	}
	if err := cmd.Actor.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var call *servicecall.ServiceCall
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		c, err := uc.callRepo.GetByID(txCtx, cmd.CallID)
		if err != nil {
			return err
		}
		if _, err := c.SetPriority(priority, cmd.Actor, uc.clock()); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.callRepo.Update(txCtx, c); err != nil {
			return err
		}
		call = c
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to set call priority", "call_id", cmd.CallID, "error", txErr)
		return nil, translateError(txErr, "failed to update service call")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, callChanged(call))

	uc.logger.Infow("call priority set successfully", "call_id", call.ID(), "priority", priority)
	return dto.ToCallDTO(call), nil
}
