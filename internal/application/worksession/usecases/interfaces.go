package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/worksession/dto"
)

type ClockInExecutor interface {
	Execute(ctx context.Context, cmd ClockInCommand) (*ClockInResult, error)
}

type ClockOutExecutor interface {
	Execute(ctx context.Context, cmd ClockOutCommand) (*dto.SessionDTO, error)
}

type ActiveSessionExecutor interface {
	Execute(ctx context.Context, techID string) (*dto.SessionDTO, error)
}

type ListSessionsExecutor interface {
	Execute(ctx context.Context, q ListSessionsQuery) (*ListSessionsResult, error)
}

type HoursByTechnicianExecutor interface {
	Execute(ctx context.Context, q ListSessionsQuery) ([]dto.TechnicianHoursDTO, error)
}
