package usecases

import (
	"context"

	"github.com/schoolit/servicedesk/internal/application/servicecall/dto"
)

type CreateCallExecutor interface {
	Execute(ctx context.Context, cmd CreateCallCommand) (*CreateCallResult, error)
}

type TransitionStatusExecutor interface {
	Execute(ctx context.Context, cmd TransitionStatusCommand) (*dto.CallDTO, error)
}

type SetPriorityExecutor interface {
	Execute(ctx context.Context, cmd SetPriorityCommand) (*dto.CallDTO, error)
}

type SetCategoryExecutor interface {
	Execute(ctx context.Context, cmd SetCategoryCommand) (*dto.CallDTO, error)
}

type AddNoteExecutor interface {
	Execute(ctx context.Context, cmd AddNoteCommand) (*AddNoteResult, error)
}

type SupplyEquipmentExecutor interface {
	Execute(ctx context.Context, cmd SupplyEquipmentCommand) (*SupplyEquipmentResult, error)
}

type GetCallExecutor interface {
	Execute(ctx context.Context, query GetCallQuery) (*dto.CallDTO, error)
}

type ListCallsExecutor interface {
	Execute(ctx context.Context, query ListCallsQuery) (*ListCallsResult, error)
}

type CallStatsExecutor interface {
	Execute(ctx context.Context, query CallStatsQuery) (*dto.StatsDTO, error)
}
