package usecases

import (
	"context"
	"sync"

	"github.com/schoolit/servicedesk/internal/domain/inventory"
	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/relay"
)

type mockCallRepository struct {
	CreateFunc              func(ctx context.Context, call *servicecall.ServiceCall) error
	UpdateFunc              func(ctx context.Context, call *servicecall.ServiceCall) error
	GetByIDFunc             func(ctx context.Context, callID string) (*servicecall.ServiceCall, error)
	ListFunc                func(ctx context.Context, filter servicecall.Filter) ([]*servicecall.ServiceCall, int64, error)
	StatsFunc               func(ctx context.Context, schoolID string) (*servicecall.Stats, error)
	DeleteBatchBySchoolFunc func(ctx context.Context, schoolID string, limit int) (int64, int64, error)
}

func (m *mockCallRepository) Create(ctx context.Context, call *servicecall.ServiceCall) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, call)
	}
	return nil
}

func (m *mockCallRepository) Update(ctx context.Context, call *servicecall.ServiceCall) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, call)
	}
	return nil
}

func (m *mockCallRepository) GetByID(ctx context.Context, callID string) (*servicecall.ServiceCall, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, callID)
	}
	return nil, servicecall.ErrCallNotFound
}

func (m *mockCallRepository) List(ctx context.Context, filter servicecall.Filter) ([]*servicecall.ServiceCall, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockCallRepository) Stats(ctx context.Context, schoolID string) (*servicecall.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, schoolID)
	}
	return &servicecall.Stats{}, nil
}

func (m *mockCallRepository) DeleteBatchBySchool(ctx context.Context, schoolID string, limit int) (int64, int64, error) {
	if m.DeleteBatchBySchoolFunc != nil {
		return m.DeleteBatchBySchoolFunc(ctx, schoolID, limit)
	}
	return 0, 0, nil
}

type mockSchoolRepository struct {
	GetByIDFunc func(ctx context.Context, schoolID string) (*school.School, error)
}

func (m *mockSchoolRepository) Create(context.Context, *school.School) error { return nil }
func (m *mockSchoolRepository) Update(context.Context, *school.School) error { return nil }
func (m *mockSchoolRepository) List(context.Context) ([]*school.School, error) {
	return nil, nil
}
func (m *mockSchoolRepository) Delete(context.Context, string) error { return nil }

func (m *mockSchoolRepository) GetByID(ctx context.Context, schoolID string) (*school.School, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, schoolID)
	}
	return nil, school.ErrSchoolNotFound
}

type mockMetaRepository struct {
	GetCategoriesFunc func(ctx context.Context, schoolID string) ([]vo.CategoryOption, error)
}

func (m *mockMetaRepository) GetCategories(ctx context.Context, schoolID string) ([]vo.CategoryOption, error) {
	if m.GetCategoriesFunc != nil {
		return m.GetCategoriesFunc(ctx, schoolID)
	}
	return nil, nil
}

func (m *mockMetaRepository) SaveCategories(context.Context, string, []vo.CategoryOption) error {
	return nil
}

func (m *mockMetaRepository) GetLocations(context.Context, string) (*school.Locations, error) {
	return nil, nil
}

func (m *mockMetaRepository) SaveLocations(context.Context, string, school.Locations) error {
	return nil
}

func (m *mockMetaRepository) DeleteBatchBySchool(context.Context, string, int) (int64, error) {
	return 0, nil
}

type mockItemRepository struct {
	GetByIDFunc        func(ctx context.Context, itemID string) (*inventory.Item, error)
	UpdateFunc         func(ctx context.Context, item *inventory.Item) error
	RecordMovementFunc func(ctx context.Context, m *inventory.Movement) error
}

func (m *mockItemRepository) Create(context.Context, *inventory.Item) error { return nil }

func (m *mockItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, item)
	}
	return nil
}

func (m *mockItemRepository) GetByID(ctx context.Context, itemID string) (*inventory.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, itemID)
	}
	return nil, inventory.ErrItemNotFound
}

func (m *mockItemRepository) List(context.Context, inventory.Filter) ([]*inventory.Item, error) {
	return nil, nil
}

func (m *mockItemRepository) RecordMovement(ctx context.Context, mv *inventory.Movement) error {
	if m.RecordMovementFunc != nil {
		return m.RecordMovementFunc(ctx, mv)
	}
	return nil
}

func (m *mockItemRepository) ListMovements(context.Context, string, int) ([]*inventory.Movement, error) {
	return nil, nil
}

// passthroughTx runs fn once against the caller's context.
type passthroughTx struct{}

func (passthroughTx) RunInTransactionWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []pubsub.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event pubsub.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) topics() []pubsub.Topic {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pubsub.Topic, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Topic)
	}
	return out
}

type dispatched struct {
	callID string
	status vo.CallStatus
	action relay.Action
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []dispatched
}

func (d *recordingDispatcher) Dispatch(call *servicecall.ServiceCall, action relay.Action) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, dispatched{callID: call.ID(), status: call.Status(), action: action})
}

func (d *recordingDispatcher) snapshot() []dispatched {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dispatched(nil), d.calls...)
}
