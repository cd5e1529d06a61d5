package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/common"
	"github.com/schoolit/servicedesk/internal/application/school/dto"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// UpdateSettingsCommand leaves nil fields unchanged. An empty WebhookURL
// turns outbound sync off.
type UpdateSettingsCommand struct {
	SchoolID    string
	Name        *string
	Address     *string
	ContactName *string
	WebhookURL  *string
}

type UpdateSettingsUseCase struct {
	schoolRepo school.Repository
	txMgr      common.Transactor
	publisher  pubsub.ChangePublisher
	clock      biztime.Clock
	logger     logger.Interface
}

func NewUpdateSettingsUseCase(
	schoolRepo school.Repository,
	txMgr common.Transactor,
	publisher pubsub.ChangePublisher,
	logger logger.Interface,
) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{
		schoolRepo: schoolRepo,
		txMgr:      txMgr,
		publisher:  publisher,
		clock:      biztime.NowUTC,
		logger:     logger,
	}
}

func (uc *UpdateSettingsUseCase) Execute(ctx context.Context, cmd UpdateSettingsCommand) (*dto.SchoolDTO, error) {
	uc.logger.Infow("executing update school settings use case", "school_id", cmd.SchoolID)

	if cmd.SchoolID == "" {
		return nil, errors.NewValidationError("school ID is required")
	}

	var updated *school.School
	txErr := uc.txMgr.RunInTransactionWithRetry(ctx, func(txCtx context.Context) error {
		s, err := uc.schoolRepo.GetByID(txCtx, cmd.SchoolID)
		if err != nil {
			return err
		}
		err = s.UpdateSettings(school.Settings{
			Name:        cmd.Name,
			Address:     cmd.Address,
			ContactName: cmd.ContactName,
			WebhookURL:  cmd.WebhookURL,
		}, uc.clock())
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.schoolRepo.Update(txCtx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if txErr != nil {
		uc.logger.Errorw("failed to update school settings", "school_id", cmd.SchoolID, "error", txErr)
		return nil, translateError(txErr, "failed to update school settings")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, schoolChanged(updated.ID()))

	uc.logger.Infow("school settings updated successfully",
		"school_id", updated.ID(),
		"webhook_enabled", updated.WebhookURL() != "",
	)
	return dto.ToSchoolDTO(updated), nil
}
