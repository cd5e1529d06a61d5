package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/worksession/dto"
	"github.com/schoolit/servicedesk/internal/domain/worksession"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/query"
)

type ActiveSessionUseCase struct {
	sessionRepo worksession.Repository
	logger      logger.Interface
}

func NewActiveSessionUseCase(sessionRepo worksession.Repository, logger logger.Interface) *ActiveSessionUseCase {
	return &ActiveSessionUseCase{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Execute returns the technician's open session, or nil when off the clock.
func (uc *ActiveSessionUseCase) Execute(ctx context.Context, techID string) (*dto.SessionDTO, error) {
	if techID == "" {
		return nil, errors.NewValidationError("technician ID is required")
	}
	s, err := uc.sessionRepo.GetActiveByTechnician(ctx, techID)
	if err != nil {
		uc.logger.Errorw("failed to get active session", "tech_id", techID, "error", err)
		return nil, translateError(err, "failed to get active session")
	}
	return dto.ToSessionDTO(s), nil
}

type ListSessionsQuery struct {
	TechID   string
	SchoolID string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

type ListSessionsResult struct {
	Sessions []*dto.SessionDTO
	Total    int64
	Page     int
	PageSize int
}

type ListSessionsUseCase struct {
	sessionRepo worksession.Repository
	logger      logger.Interface
}

func NewListSessionsUseCase(sessionRepo worksession.Repository, logger logger.Interface) *ListSessionsUseCase {
	return &ListSessionsUseCase{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Execute lists sessions newest first.
func (uc *ListSessionsUseCase) Execute(ctx context.Context, q ListSessionsQuery) (*ListSessionsResult, error) {
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}

	sessions, total, err := uc.sessionRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list sessions", "error", err)
		return nil, translateError(err, "failed to list sessions")
	}
	return &ListSessionsResult{
		Sessions: dto.ToSessionDTOs(sessions),
		Total:    total,
		Page:     max(q.Page, 1),
		PageSize: filter.Limit(),
	}, nil
}

type HoursByTechnicianUseCase struct {
	sessionRepo worksession.Repository
	logger      logger.Interface
}

func NewHoursByTechnicianUseCase(sessionRepo worksession.Repository, logger logger.Interface) *HoursByTechnicianUseCase {
	return &HoursByTechnicianUseCase{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Execute sums closed-session minutes per technician, busiest first.
func (uc *HoursByTechnicianUseCase) Execute(ctx context.Context, q ListSessionsQuery) ([]dto.TechnicianHoursDTO, error) {
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}

	rows, err := uc.sessionRepo.HoursByTechnician(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to compute technician hours", "error", err)
		return nil, translateError(err, "failed to compute technician hours")
	}
	return dto.ToTechnicianHoursDTOs(rows), nil
}

func toFilter(q ListSessionsQuery) (worksession.Filter, error) {
	for _, d := range []string{q.DateFrom, q.DateTo} {
		if d == "" {
			continue
		}
		if _, err := biztime.ParseDate(d); err != nil {
			return worksession.Filter{}, errors.NewValidationError(err.Error())
		}
	}
	return worksession.Filter{
		PageFilter: query.PageFilter{Page: q.Page, PageSize: q.PageSize},
		TechID:     q.TechID,
		SchoolID:   q.SchoolID,
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
	}, nil
}
