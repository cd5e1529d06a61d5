package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// CallStatsQuery scopes the report to one school; empty means all schools.
type CallStatsQuery struct {
	SchoolID string
}

type CallStatsUseCase struct {
	callRepo servicecall.Repository
	logger   logger.Interface
}

func NewCallStatsUseCase(callRepo servicecall.Repository, logger logger.Interface) *CallStatsUseCase {
	return &CallStatsUseCase{
		callRepo: callRepo,
		logger:   logger,
	}
}

func (uc *CallStatsUseCase) Execute(ctx context.Context, q CallStatsQuery) (*dto.StatsDTO, error) {
	stats, err := uc.callRepo.Stats(ctx, q.SchoolID)
	if err != nil {
		uc.logger.Errorw("failed to compute call stats", "school_id", q.SchoolID, "error", err)
		return nil, translateError(err, "failed to compute call stats")
	}
	return dto.ToStatsDTO(stats), nil
}
