package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/school/dto"
	"github.com/schoolit/servicedesk/internal/domain/school"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
)

type CreateSchoolExecutor interface {
	Execute(ctx context.Context, cmd CreateSchoolCommand) (*dto.SchoolDTO, error)
}

type GetSchoolExecutor interface {
	Execute(ctx context.Context, schoolID string) (*dto.SchoolDTO, error)
	List(ctx context.Context) ([]*dto.SchoolDTO, error)
}

type UpdateSettingsExecutor interface {
	Execute(ctx context.Context, cmd UpdateSettingsCommand) (*dto.SchoolDTO, error)
}

type DeleteSchoolExecutor interface {
	Execute(ctx context.Context, schoolID string) (*dto.DeletionReport, error)
}

type CreateAccountExecutor interface {
	Execute(ctx context.Context, cmd CreateAccountCommand) (*dto.AccountDTO, error)
}

type ListAccountsExecutor interface {
	Execute(ctx context.Context, schoolID string) ([]*dto.AccountDTO, error)
}

type MetaExecutor interface {
	GetCategories(ctx context.Context, schoolID string) ([]vo.CategoryOption, error)
	UpdateCategories(ctx context.Context, schoolID string, opts []vo.CategoryOption) ([]vo.CategoryOption, error)
	GetLocations(ctx context.Context, schoolID string) (*school.Locations, error)
	UpdateLocations(ctx context.Context, schoolID string, locs school.Locations) (*school.Locations, error)
}
