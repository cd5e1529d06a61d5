package servicecall

import (
	"context"
	"time"

	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/shared/query"
)

// Repository persists ServiceCall aggregates. Update writes the call row
// with a version check and inserts only the pending child entries; a stale
// version yields db.ErrConcurrentModification.
type Repository interface {
	Create(ctx context.Context, call *ServiceCall) error
	Update(ctx context.Context, call *ServiceCall) error
	GetByID(ctx context.Context, callID string) (*ServiceCall, error)
	List(ctx context.Context, filter Filter) ([]*ServiceCall, int64, error)
	Stats(ctx context.Context, schoolID string) (*Stats, error)
	// DeleteBatchBySchool removes at most limit rows belonging to a school's
	// calls, child rows first, and reports the calls and the rows it removed.
	// Fewer than limit rows means nothing is left.
	DeleteBatchBySchool(ctx context.Context, schoolID string, limit int) (calls, rows int64, err error)
}

type Filter struct {
	query.BaseFilter
	SchoolID   string
	ClientID   string
	RoomNumber string
	Status     *vo.CallStatus
	Category   *vo.Category
	OpenOnly   bool
	// WithDetails loads notes, supplied equipment and history for each call.
	WithDetails bool
}

type Stats struct {
	Total                  int64
	Open                   int64
	ByStatus               map[vo.CallStatus]int64
	ByCategory             map[vo.Category]int64
	ByPriority             map[vo.Priority]int64
	AverageResolutionHours float64
	ComputedAt             time.Time
}
