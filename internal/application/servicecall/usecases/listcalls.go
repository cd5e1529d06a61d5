package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/query"
)

type ListCallsQuery struct {
	SchoolID    string
	ClientID    string
	RoomNumber  string
	Status      string
	Category    string
	OpenOnly    bool
	WithDetails bool
	Page        int
	PageSize    int
}

type ListCallsResult struct {
	Calls    []*dto.CallDTO
	Total    int64
	Page     int
	PageSize int
}

// ListCallsUseCase returns calls newest first.
type ListCallsUseCase struct {
	callRepo servicecall.Repository
	logger   logger.Interface
}

func NewListCallsUseCase(callRepo servicecall.Repository, logger logger.Interface) *ListCallsUseCase {
	return &ListCallsUseCase{
		callRepo: callRepo,
		logger:   logger,
	}
}

func (uc *ListCallsUseCase) Execute(ctx context.Context, q ListCallsQuery) (*ListCallsResult, error) {
	filter, err := toFilter(q)
	if err != nil {
		return nil, err
	}

	calls, total, err := uc.callRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list service calls", "school_id", q.SchoolID, "error", err)
		return nil, translateError(err, "failed to list service calls")
	}

	return &ListCallsResult{
		Calls:    dto.ToCallDTOs(calls),
		Total:    total,
		Page:     max(q.Page, 1),
		PageSize: filter.Limit(),
	}, nil
}

func toFilter(q ListCallsQuery) (servicecall.Filter, error) {
	filter := servicecall.Filter{
		BaseFilter: query.BaseFilter{
			PageFilter: query.PageFilter{Page: q.Page, PageSize: q.PageSize},
		},
		SchoolID:    q.SchoolID,
		ClientID:    q.ClientID,
		RoomNumber:  q.RoomNumber,
		OpenOnly:    q.OpenOnly,
		WithDetails: q.WithDetails,
	}
	if q.Status != "" {
		status, err := vo.NewCallStatus(q.Status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Status = &status
	}
	if q.Category != "" {
		category, err := vo.NewCategory(q.Category)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Category = &category
	}
	return filter, nil
}
