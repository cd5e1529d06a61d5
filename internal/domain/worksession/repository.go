package worksession

import (
	"context"

	"github.com/schoolit/servicedesk/internal/shared/query"
)

// Repository persists work sessions. Create fails with
// db.ErrConcurrentModification when the technician's active slot is taken.
type Repository interface {
	Create(ctx context.Context, s *WorkSession) error
	Close(ctx context.Context, s *WorkSession) error
	GetByID(ctx context.Context, sessionID string) (*WorkSession, error)
	GetActiveByTechnician(ctx context.Context, techID string) (*WorkSession, error)
	List(ctx context.Context, filter Filter) ([]*WorkSession, int64, error)
	HoursByTechnician(ctx context.Context, filter Filter) ([]TechnicianHours, error)
}

type Filter struct {
	query.PageFilter
	TechID   string
	SchoolID string
	// DateFrom and DateTo bound the session date, inclusive, as YYYY-MM-DD.
	DateFrom string
	DateTo   string
}

type TechnicianHours struct {
	TechID       string
	TechName     string
	Sessions     int64
	TotalMinutes int64
}

func (h TechnicianHours) Hours() float64 {
	return float64(h.TotalMinutes) / 60
}
