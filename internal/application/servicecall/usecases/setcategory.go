package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type SetCategoryCommand struct {
	CallID   string
	Category string
	Actor    shared.Actor
}

type SetCategoryUseCase struct {
	callRepo  servicecall.Repository
	metaRepo  school.MetaRepository
	txMgr     common.Transactor
	publisher pubsub.ChangePublisher
	clock     biztime.Clock
	logger    logger.Interface
}

func NewSetCategoryUseCase(
	callRepo servicecall.Repository,
	metaRepo school.MetaRepository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *SetCategoryUseCase {
	return &SetCategoryUseCase{
		callRepo:  callRepo,
		metaRepo:  metaRepo,
		txMgr:     txMgr,
		publisher: publisher,
		clock:     biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *SetCategoryUseCase) Execute(ctx context.Context, cmd SetCategoryCommand) (*dto.CallDTO, error) {
	uc.logger.Infow("executing set category use case", "call_id", cmd.CallID, "category", cmd.Category)

	if cmd.CallID == "" {
		return nil, errors.NewValidationError("call ID is required")
	}
	if err := cmd.Actor.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	category, err := vo.NewCategory(cmd.Category)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	var call *servicecall.ServiceCall
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		c, err := uc.callRepo.GetByID(txCtx, cmd.CallID)
		if err != nil {
			return err
		}

		options, err := schoolCategories(txCtx, uc.metaRepo, c.SchoolID())
		if err != nil {
			return err
		}
		if !category.IsKnown(options) {
			return errors.NewValidationError("unknown category for this school", cmd.Category)
		}

		if _, err := c.SetCategory(category, cmd.Actor, uc.clock()); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.callRepo.Update(txCtx, c); err != nil {
			return err
		}
		call = c
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to set call category", "call_id", cmd.CallID, "error", txErr)
		return nil, translateError(txErr, "failed to update service call")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, callChanged(call))

	uc.logger.Infow("call category changed successfully", "call_id", call.ID(), "category", category)
	return dto.ToCallDTO(call), nil
}
