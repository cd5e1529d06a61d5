package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/relay"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/config"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type TransitionStatusCommand struct {
	CallID string
	Status string
	Actor  shared.Actor
	// Override admits an off-graph transition when strict transitions are on.
	Override bool
}

type TransitionStatusUseCase struct {
	callRepo  servicecall.Repository
	txMgr     common.Transactor
	publisher pubsub.ChangePublisher
	relay     relay.Dispatcher
	workflow  config.WorkflowConfig
	clock     biztime.Clock
	logger    logger.Interface
}

func NewTransitionStatusUseCase(
	callRepo servicecall.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	dispatcher relay.Dispatcher,
	workflow config.WorkflowConfig,
	logger logger.Interface,
) *TransitionStatusUseCase {
	return &TransitionStatusUseCase{
		callRepo:  callRepo,
		txMgr:     txMgr,
		publisher: publisher,
		relay:     dispatcher,
		workflow:  workflow,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *TransitionStatusUseCase) Execute(ctx context.Context, cmd TransitionStatusCommand) (*dto.CallDTO, error) {
	uc.logger.Infow("executing transition status use case", "call_id", cmd.CallID, "status", cmd.Status)

	next, err := uc.validateCommand(cmd)
	if err != nil {
		uc.logger.Warnw("invalid transition status command", "call_id", cmd.CallID, "error", err)
		return nil, err
	}

	var (
		call  *servicecall.ServiceCall
		entry *servicecall.HistoryEntry
	)
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		c, err := uc.callRepo.GetByID(txCtx, cmd.CallID)
		if err != nil {
			return err
		}

		if uc.workflow.StrictTransitions && !cmd.Override && !c.Status().IsOnGraph(next) {
			return errors.NewValidationError("status transition not allowed",
				c.Status().String()+" -> "+next.String())
		}

		e, err := c.TransitionStatus(next, cmd.Actor, uc.clock())
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.callRepo.Update(txCtx, c); err != nil {
			return err
		}
		call, entry = c, e
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to transition call status", "call_id", cmd.CallID, "error", txErr)
		return nil, translateError(txErr, "failed to update service call")
	}

	if entry.OffGraph() {
		uc.logger.Warnw("off-graph status transition recorded",
			"call_id", call.ID(),
			"from", *entry.OldValue(),
			"to", *entry.NewValue(),
			"actor", cmd.Actor.ID,
			"override", cmd.Override,
		)
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, callChanged(call))
	uc.relay.Dispatch(call, relay.ActionUpdate)

	uc.logger.Infow("call status changed successfully",
		"call_id", call.ID(),
		"old_status", *entry.OldValue(),
		"new_status", *entry.NewValue(),
	)

	return dto.ToCallDTO(call), nil
}

func (uc *TransitionStatusUseCase) validateCommand(cmd TransitionStatusCommand) (vo.CallStatus, error) {
	if cmd.CallID == "" {
		return "", errors.NewValidationError("call ID is required")
	}
	if err := cmd.Actor.Validate(); err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	next, err := vo.NewCallStatus(cmd.Status)
	if err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	return next, nil
}
