package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type GetCallQuery struct {
	CallID string
}

type GetCallUseCase struct {
	callRepo servicecall.Repository
	logger   logger.Interface
}

func NewGetCallUseCase(callRepo servicecall.Repository, logger logger.Interface) *GetCallUseCase {
	return &GetCallUseCase{
		callRepo: callRepo,
		logger:   logger,
	}
}

func (uc *GetCallUseCase) Execute(ctx context.Context, query GetCallQuery) (*dto.CallDTO, error) {
	if query.CallID == "" {
		return nil, errors.NewValidationError("call ID is required")
	}

	c, err := uc.callRepo.GetByID(ctx, query.CallID)
	if err != nil {
		uc.logger.Debugw("failed to get service call", "call_id", query.CallID, "error", err)
		return nil, translateError(err, "failed to get service call")
	}
	return dto.ToCallDTO(c), nil
}
