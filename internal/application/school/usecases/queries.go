package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/school/dto"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type GetSchoolUseCase struct {
	schoolRepo school.Repository
	logger     logger.Interface
}

func NewGetSchoolUseCase(schoolRepo school.Repository, logger logger.Interface) *GetSchoolUseCase {
	return &GetSchoolUseCase{
		schoolRepo: schoolRepo,
		logger:     logger,
	}
}

func (uc *GetSchoolUseCase) Execute(ctx context.Context, schoolID string) (*dto.SchoolDTO, error) {
	s, err := uc.schoolRepo.GetByID(ctx, schoolID)
	if err != nil {
		return nil, translateError(err, "failed to get school")
	}
	return dto.ToSchoolDTO(s), nil
}

// List returns every school ordered by name.
func (uc *GetSchoolUseCase) List(ctx context.Context) ([]*dto.SchoolDTO, error) {
	schools, err := uc.schoolRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list schools", "error", err)
		return nil, translateError(err, "failed to list schools")
	}
	return dto.ToSchoolDTOs(schools), nil
}

type ListAccountsUseCase struct {
	schoolRepo  school.Repository
	accountRepo school.AccountRepository
	logger      logger.Interface
}

func NewListAccountsUseCase(schoolRepo school.Repository, accountRepo school.AccountRepository, logger logger.Interface) *ListAccountsUseCase {
	return &ListAccountsUseCase{
		schoolRepo:  schoolRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

func (uc *ListAccountsUseCase) Execute(ctx context.Context, schoolID string) ([]*dto.AccountDTO, error) {
	if _, err := uc.schoolRepo.GetByID(ctx, schoolID); err != nil {
		return nil, translateError(err, "failed to list accounts")
	}
	accounts, err := uc.accountRepo.ListBySchool(ctx, schoolID)
	if err != nil {
		uc.logger.Errorw("failed to list accounts", "school_id", schoolID, "error", err)
		return nil, translateError(err, "failed to list accounts")
	}
	return dto.ToAccountDTOs(accounts), nil
}
