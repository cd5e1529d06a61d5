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

type CreateSchoolCommand struct {
	Name        string
	Address     string
	ContactName string
	WebhookURL  string
}

type CreateSchoolUseCase struct {
	schoolRepo school.Repository
	publisher  pubsub.ChangePublisher
	clock      biztime.Clock
	logger     logger.Interface
}

func NewCreateSchoolUseCase(schoolRepo school.Repository, publisher pubsub.ChangePublisher, logger logger.Interface) *CreateSchoolUseCase {
	return &CreateSchoolUseCase{
		schoolRepo: schoolRepo,
		publisher:  publisher,
		clock:      biztime.NowUTC,
		logger:     logger,
	}
}

func (uc *CreateSchoolUseCase) Execute(ctx context.Context, cmd CreateSchoolCommand) (*dto.SchoolDTO, error) {
	uc.logger.Infow("executing create school use case", "name", cmd.Name)

	s, err := school.NewSchool(cmd.Name, cmd.Address, cmd.ContactName, cmd.WebhookURL, uc.clock())
	if err != nil {
		uc.logger.Warnw("invalid create school command", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.schoolRepo.Create(ctx, s); err != nil {
		uc.logger.Errorw("failed to create school", "error", err)
		return nil, translateError(err, "failed to create school")
	}

	common.PublishChange(ctx, uc.publisher, uc.logger, schoolChanged(s.ID()))

	uc.logger.Infow("school created successfully", "school_id", s.ID())
	return dto.ToSchoolDTO(s), nil
}

type CreateAccountCommand struct {
	SchoolID    string
	Role        string
	DisplayName string
	Email       string
}

// CreateAccountUseCase records a user of a school. Credentials are the
// external identity provider's concern.
type CreateAccountUseCase struct {
	schoolRepo  school.Repository
	accountRepo school.AccountRepository
	clock       biztime.Clock
	logger      logger.Interface
}

func NewCreateAccountUseCase(schoolRepo school.Repository, accountRepo school.AccountRepository, logger logger.Interface) *CreateAccountUseCase {
	return &CreateAccountUseCase{
		schoolRepo:  schoolRepo,
		accountRepo: accountRepo,
		clock:       biztime.NowUTC,
		logger:      logger,
	}
}

func (uc *CreateAccountUseCase) Execute(ctx context.Context, cmd CreateAccountCommand) (*dto.AccountDTO, error) {
	uc.logger.Infow("executing create account use case", "school_id", cmd.SchoolID, "role", cmd.Role)

	if _, err := uc.schoolRepo.GetByID(ctx, cmd.SchoolID); err != nil {
		return nil, translateError(err, "failed to create account")
	}

	a, err := school.NewAccount(cmd.SchoolID, school.Role(cmd.Role), cmd.DisplayName, cmd.Email, uc.clock())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := uc.accountRepo.Create(ctx, a); err != nil {
		uc.logger.Errorw("failed to create account", "school_id", cmd.SchoolID, "error", err)
		return nil, translateError(err, "failed to create account")
	}

	uc.logger.Infow("account created successfully", "account_id", a.ID, "school_id", a.SchoolID)
	return dto.ToAccountDTO(a), nil
}
