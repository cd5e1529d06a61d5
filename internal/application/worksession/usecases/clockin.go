package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/worksession/dto"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/domain/worksession"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type ClockInCommand struct {
	Tech     shared.Actor
	SchoolID string
}

type ClockInResult struct {
	Session *dto.SessionDTO
	// Closed is the session that was still open and got closed first.
	Closed *dto.SessionDTO
}

// ClockInUseCase opens a session. A still-open session of the same
// technician is closed at the same instant in the same transaction.
type ClockInUseCase struct {
	sessionRepo worksession.Repository
	schoolRepo  school.Repository
	txMgr       common.Transactor
	publisher   pubsub.ChangePublisher
	clock       biztime.Clock
	logger      logger.Interface
}

func NewClockInUseCase(
	sessionRepo worksession.Repository,
	schoolRepo school.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *ClockInUseCase {
	return &ClockInUseCase{
		sessionRepo: sessionRepo,
		schoolRepo:  schoolRepo,
		txMgr:       txMgr,
		publisher:   publisher,
		clock:       biztime.NowUTC,
		logger:      logger,
	}
}

func (uc *ClockInUseCase) Execute(ctx context.Context, cmd ClockInCommand) (*ClockInResult, error) {
	uc.logger.Infow("executing clock in use case", "tech_id", cmd.Tech.ID, "school_id", cmd.SchoolID)

	if err := cmd.Tech.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if cmd.SchoolID == "" {
		return nil, errors.NewValidationError("school ID is required")
	}

	var opened, closed *worksession.WorkSession
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		opened, closed = nil, nil

		s, err := uc.schoolRepo.GetByID(txCtx, cmd.SchoolID)
		if err != nil {
			return err
		}

		now := uc.clock()
		active, err := uc.sessionRepo.GetActiveByTechnician(txCtx, cmd.Tech.ID)
		if err != nil {
			return err
		}
		if active != nil {
			if err := active.ClockOut(now); err != nil {
				return err
			}
			if err := uc.sessionRepo.Close(txCtx, active); err != nil {
				return err
			}
			closed = active
		}

		session, err := worksession.ClockIn(cmd.Tech, s.ID(), s.Name(), now)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.sessionRepo.Create(txCtx, session); err != nil {
			return err
		}
		opened = session
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to clock in", "tech_id", cmd.Tech.ID, "error", txErr)
		return nil, translateError(txErr, "failed to clock in")
	}

	if closed != nil {
		uc.logger.Infow("closed previous open session on clock in",
			"tech_id", cmd.Tech.ID,
			"session_id", closed.ID(),
			"duration_minutes", *closed.DurationMinutes(),
		)
		common.PublishChange(ctx, uc.publisher, uc.logger, sessionChanged(closed))
	}
	common.PublishChange(ctx, uc.publisher, uc.logger, sessionChanged(opened))

	uc.logger.Infow("clocked in successfully", "tech_id", cmd.Tech.ID, "session_id", opened.ID())

	return &ClockInResult{
		Session: dto.ToSessionDTO(opened),
		Closed:  dto.ToSessionDTO(closed),
	}, nil
}
