package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/worksession/dto"
	"github.com/schoolit/servicedesk/internal/domain/worksession"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type ClockOutCommand struct {
	SessionID string
}

type ClockOutUseCase struct {
	sessionRepo worksession.Repository
	txMgr       common.Transactor
	publisher   pubsub.ChangePublisher
	clock       biztime.Clock
	logger      logger.Interface
}

func NewClockOutUseCase(
	sessionRepo worksession.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *ClockOutUseCase {
	return &ClockOutUseCase{
		sessionRepo: sessionRepo,
		txMgr:       txMgr,
		publisher:   publisher,
		clock:       biztime.NowUTC,
		logger:      logger,
	}
}

func (uc *ClockOutUseCase) Execute(ctx context.Context, cmd ClockOutCommand) (*dto.SessionDTO, error) {
	uc.logger.Infow("executing clock out use case", "session_id", cmd.SessionID)

	if cmd.SessionID == "" {
		return nil, errors.NewValidationError("session ID is required")
	}

	var session *worksession.WorkSession
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		s, err := uc.sessionRepo.GetByID(txCtx, cmd.SessionID)
		if err != nil {
			return err
		}
		if err := s.ClockOut(uc.clock()); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.sessionRepo.Close(txCtx, s); err != nil {
			return err
		}
		session = s
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to clock out", "session_id", cmd.SessionID, "error", txErr)
		return nil, translateError(txErr, "failed to clock out")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, sessionChanged(session))

	uc.logger.Infow("clocked out successfully",
		"session_id", session.ID(),
		"duration_minutes", *session.DurationMinutes(),
	)
	return dto.ToSessionDTO(session), nil
}
