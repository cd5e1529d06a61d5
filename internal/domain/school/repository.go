package school

import (
	"context"

	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
)

type Repository interface {
	Create(ctx context.Context, s *School) error
	Update(ctx context.Context, s *School) error
	GetByID(ctx context.Context, schoolID string) (*School, error)
	List(ctx context.Context) ([]*School, error)
	Delete(ctx context.Context, schoolID string) error
}

// MetaRepository stores the per-school category list and location tree.
// Getters return nil when no record exists.
type MetaRepository interface {
	GetCategories(ctx context.Context, schoolID string) ([]vo.CategoryOption, error)
	SaveCategories(ctx context.Context, schoolID string, opts []vo.CategoryOption) error
	GetLocations(ctx context.Context, schoolID string) (*Locations, error)
	SaveLocations(ctx context.Context, schoolID string, locs Locations) error
	DeleteBatchBySchool(ctx context.Context, schoolID string, limit int) (int64, error)
}

type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	ListBySchool(ctx context.Context, schoolID string) ([]*Account, error)
	DeleteBatchBySchool(ctx context.Context, schoolID string, limit int) (int64, error)
}
