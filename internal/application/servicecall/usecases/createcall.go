package usecases

import (
	"context"
	"strings"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/relay"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type CreateCallCommand struct {
	SchoolID        string
	Category        string
	Description     string
	Client          servicecall.Client
	Location        servicecall.Location
	LocationDisplay string
	Source          string
}

type CreateCallResult struct {
	CallID string
	Call   *dto.CallDTO
}

type CreateCallUseCase struct {
	callRepo   servicecall.Repository
	schoolRepo school.Repository
	metaRepo   school.MetaRepository
	txMgr      common.Transactor
	publisher  pubsub.ChangePublisher
	relay      relay.Dispatcher
	clock      biztime.Clock
	logger     logger.Interface
}

func NewCreateCallUseCase(
	callRepo servicecall.Repository,
	schoolRepo school.Repository,
	metaRepo school.MetaRepository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	dispatcher relay.Dispatcher,
	logger logger.Interface,
) *CreateCallUseCase {
	return &CreateCallUseCase{
		callRepo:   callRepo,
		schoolRepo: schoolRepo,
		metaRepo:   metaRepo,
		txMgr:      txMgr,
		publisher:  publisher,
		relay:      dispatcher,
		clock:      biztime.NowUTC,
		logger:     logger,
	}
}

func (uc *CreateCallUseCase) Execute(ctx context.Context, cmd CreateCallCommand) (*CreateCallResult, error) {
	uc.logger.Infow("executing create call use case", "school_id", cmd.SchoolID, "client_id", cmd.Client.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid create call command", "error", err)
		return nil, err
	}

	var call *servicecall.ServiceCall
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		s, err := uc.schoolRepo.GetByID(txCtx, cmd.SchoolID)
		if err != nil {
			return err
		}

		options, err := schoolCategories(txCtx, uc.metaRepo, cmd.SchoolID)
		if err != nil {
			return err
		}
		category := vo.Category(cmd.Category)
		if !category.IsKnown(options) {
			return errors.NewValidationError("unknown category for this school", cmd.Category)
		}

		c, err := servicecall.NewServiceCall(servicecall.NewCallParams{
			SchoolID:        s.ID(),
			SchoolName:      s.Name(),
			Category:        category,
			Description:     cmd.Description,
			Client:          cmd.Client,
			Location:        cmd.Location,
			LocationDisplay: cmd.LocationDisplay,
			Source:          cmd.Source,
		}, uc.clock())
		if err != nil {
			return errors.NewValidationError(err.Error())
		}

		if err := uc.callRepo.Create(txCtx, c); err != nil {
			return err
		}
		call = c
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to create service call", "school_id", cmd.SchoolID, "error", txErr)
		return nil, translateError(txErr, "failed to create service call")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, callChanged(call))
	uc.relay.Dispatch(call, relay.ActionCreate)

	uc.logger.Infow("service call created successfully", "call_id", call.ID(), "school_id", call.SchoolID())

	return &CreateCallResult{
		CallID: call.ID(),
		Call:   dto.ToCallDTO(call),
	}, nil
}

func (uc *CreateCallUseCase) validateCommand(cmd CreateCallCommand) error {
	if cmd.SchoolID == "" {
		return errors.NewValidationError("school ID is required")
	}
	if strings.TrimSpace(cmd.Description) == "" {
		return errors.NewValidationError("description is required")
	}
	if cmd.Category == "" {
		return errors.NewValidationError("category is required")
	}
	if cmd.Client.ID == "" {
		return errors.NewValidationError("client ID is required")
	}
	return nil
}
