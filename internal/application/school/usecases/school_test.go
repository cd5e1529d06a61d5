package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/servicecall"
	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/repository"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
	"github.com/schoolit/servicedesk/internal/shared/query"
)

var fixedNow = time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

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

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type admin struct {
	callRepo    *repository.ServiceCallRepository
	accountRepo *repository.AccountRepository
	metaRepo    *repository.MetaRepository
	pub         *recordingPublisher

	create   *CreateSchoolUseCase
	get      *GetSchoolUseCase
	settings *UpdateSettingsUseCase
	meta     *MetaUseCase
	account  *CreateAccountUseCase
	accounts *ListAccountsUseCase
	txMgr    *db.TransactionManager
	schools  *repository.SchoolRepository
}

func newAdmin(t *testing.T) *admin {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	log := logger.NewNop()
	schoolRepo := repository.NewSchoolRepository(gdb, log)
	accountRepo := repository.NewAccountRepository(gdb, log)
	metaRepo := repository.NewMetaRepository(gdb, log)
	txMgr := db.NewTransactionManager(gdb, db.WithRetryPolicy(3, 0))
	pub := &recordingPublisher{}

	a := &admin{
		callRepo:    repository.NewServiceCallRepository(gdb, log),
		accountRepo: accountRepo,
		metaRepo:    metaRepo,
		pub:         pub,
		create:      NewCreateSchoolUseCase(schoolRepo, pub, log),
		get:         NewGetSchoolUseCase(schoolRepo, log),
		settings:    NewUpdateSettingsUseCase(schoolRepo, txMgr, pub, log),
		meta:        NewMetaUseCase(schoolRepo, metaRepo, pub, log),
		account:     NewCreateAccountUseCase(schoolRepo, accountRepo, log),
		accounts:    NewListAccountsUseCase(schoolRepo, accountRepo, log),
		txMgr:       txMgr,
		schools:     schoolRepo,
	}
	a.create.clock = fixedClock
	a.settings.clock = fixedClock
	a.account.clock = fixedClock
	return a
}

func (a *admin) deleter(batchSize int) *DeleteSchoolUseCase {
	return NewDeleteSchoolUseCase(a.schools, a.callRepo, a.accountRepo, a.metaRepo, a.txMgr, a.pub, batchSize, logger.NewNop())
}

func (a *admin) newSchool(t *testing.T, name string) string {
	t.Helper()
	s, err := a.create.Execute(context.Background(), CreateSchoolCommand{Name: name})
	require.NoError(t, err)
	return s.ID
}

func (a *admin) openCalls(t *testing.T, schoolID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c, err := servicecall.NewServiceCall(servicecall.NewCallParams{
			SchoolID:    schoolID,
			SchoolName:  "Ofek",
			Category:    vo.CategoryHardware,
			Description: fmt.Sprintf("Projector %d does not turn on", i),
			Client:      servicecall.Client{ID: "u_1", Name: "Noa"},
		}, fixedNow)
		require.NoError(t, err)
		require.NoError(t, a.callRepo.Create(context.Background(), c))
	}
}

func TestCreateSchoolUseCase_Execute(t *testing.T) {
	a := newAdmin(t)
	ctx := context.Background()

	s, err := a.create.Execute(ctx, CreateSchoolCommand{Name: "Ofek", WebhookURL: "https://sync.example.test/hook"})
	require.NoError(t, err)
	assert.Equal(t, "Ofek", s.Name)
	assert.Equal(t, fixedNow, s.CreatedAt)
	assert.Equal(t, 1, a.pub.count())

	_, err = a.create.Execute(ctx, CreateSchoolCommand{Name: "   "})
	assert.True(t, errors.IsValidationError(err))

	_, err = a.create.Execute(ctx, CreateSchoolCommand{Name: "Ofek", WebhookURL: "ftp://sync.example.test"})
	assert.True(t, errors.IsValidationError(err))

	got, err := a.get.Execute(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.WebhookURL, got.WebhookURL)

	_, err = a.get.Execute(ctx, "sch_missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestUpdateSettingsUseCase_Execute(t *testing.T) {
	a := newAdmin(t)
	ctx := context.Background()
	id := a.newSchool(t, "Ofek")

	hook := "https://sync.example.test/hook"
	s, err := a.settings.Execute(ctx, UpdateSettingsCommand{SchoolID: id, WebhookURL: &hook})
	require.NoError(t, err)
	assert.Equal(t, hook, s.WebhookURL)
	assert.Equal(t, "Ofek", s.Name)

	bad := "/relative"
	_, err = a.settings.Execute(ctx, UpdateSettingsCommand{SchoolID: id, WebhookURL: &bad})
	assert.True(t, errors.IsValidationError(err))

	off := ""
	s, err = a.settings.Execute(ctx, UpdateSettingsCommand{SchoolID: id, WebhookURL: &off})
	require.NoError(t, err)
	assert.Empty(t, s.WebhookURL)

	_, err = a.settings.Execute(ctx, UpdateSettingsCommand{SchoolID: "sch_missing", WebhookURL: &hook})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestMetaUseCase_Categories(t *testing.T) {
	a := newAdmin(t)
	ctx := context.Background()
	id := a.newSchool(t, "Ofek")

	opts, err := a.meta.GetCategories(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, vo.DefaultCategories(), opts)

	custom := []vo.CategoryOption{{Value: "smartboard", Label: "Smart board"}}
	_, err = a.meta.UpdateCategories(ctx, id, custom)
	require.NoError(t, err)

	opts, err = a.meta.GetCategories(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, custom, opts)

	tests := []struct {
		name string
		opts []vo.CategoryOption
	}{
		{name: "empty list", opts: nil},
		{name: "malformed code", opts: []vo.CategoryOption{{Value: "Smart Board", Label: "x"}}},
		{name: "duplicate code", opts: []vo.CategoryOption{{Value: "a", Label: "A"}, {Value: "a", Label: "B"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.meta.UpdateCategories(ctx, id, tt.opts)
			assert.True(t, errors.IsValidationError(err))
		})
	}

	_, err = a.meta.GetCategories(ctx, "sch_missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestMetaUseCase_Locations(t *testing.T) {
	a := newAdmin(t)
	ctx := context.Background()
	id := a.newSchool(t, "Ofek")

	locs, err := a.meta.GetLocations(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, school.DefaultLocations(), *locs)

	custom := school.Locations{Floors: []school.Floor{{ID: "f1", Label: "First"}}}
	_, err = a.meta.UpdateLocations(ctx, id, custom)
	require.NoError(t, err)

	locs, err = a.meta.GetLocations(ctx, id)
	require.NoError(t, err)
	require.Len(t, locs.Floors, 1)
	assert.Equal(t, "First", locs.Floors[0].Label)

	dup := school.Locations{Floors: []school.Floor{{ID: "f1", Label: "A"}, {ID: "f1", Label: "B"}}}
	_, err = a.meta.UpdateLocations(ctx, id, dup)
	assert.True(t, errors.IsValidationError(err))
}

func TestAccounts(t *testing.T) {
	a := newAdmin(t)
	ctx := context.Background()
	id := a.newSchool(t, "Ofek")

	acc, err := a.account.Execute(ctx, CreateAccountCommand{SchoolID: id, Role: "technician", DisplayName: "Dana"})
	require.NoError(t, err)
	assert.Equal(t, "technician", acc.Role)

	_, err = a.account.Execute(ctx, CreateAccountCommand{SchoolID: id, Role: "janitor", DisplayName: "Omer"})
	assert.True(t, errors.IsValidationError(err))

	_, err = a.account.Execute(ctx, CreateAccountCommand{SchoolID: "sch_missing", Role: "client", DisplayName: "Noa"})
	assert.True(t, errors.IsNotFoundError(err))

	list, err := a.accounts.Execute(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dana", list[0].DisplayName)
}

func TestDeleteSchoolUseCase_Execute_Batches(t *testing.T) {
	a := newAdmin(t)
	ctx := context.Background()
	target := a.newSchool(t, "Ofek")
	other := a.newSchool(t, "Gvanim")

	a.openCalls(t, target, 5)
	a.openCalls(t, other, 2)
	for _, name := range []string{"Dana", "Omer", "Noa"} {
		_, err := a.account.Execute(ctx, CreateAccountCommand{SchoolID: target, Role: "client", DisplayName: name})
		require.NoError(t, err)
	}
	_, err := a.meta.UpdateCategories(ctx, target, vo.DefaultCategories())
	require.NoError(t, err)
	_, err = a.meta.UpdateLocations(ctx, target, school.DefaultLocations())
	require.NoError(t, err)

	report, err := a.deleter(2).Execute(ctx, target)
	require.NoError(t, err)

	assert.Equal(t, target, report.SchoolID)
	assert.Equal(t, int64(5), report.Calls)
	assert.Equal(t, int64(3), report.Accounts)
	assert.Equal(t, int64(2), report.Meta)
	// 5 history rows and 5 calls in pairs, accounts 2+1, meta 2 then an empty pass
	assert.Equal(t, 8, report.Batches)

	_, err = a.get.Execute(ctx, target)
	assert.True(t, errors.IsNotFoundError(err))

	_, total, err := a.callRepo.List(ctx, servicecall.Filter{
		BaseFilter: query.BaseFilter{PageFilter: query.PageFilter{Page: 1, PageSize: 10}},
		SchoolID:   other,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestDeleteSchoolUseCase_Execute_Missing(t *testing.T) {
	a := newAdmin(t)

	_, err := a.deleter(0).Execute(context.Background(), "sch_missing")
	assert.True(t, errors.IsNotFoundError(err))

	_, err = a.deleter(0).Execute(context.Background(), "")
	assert.True(t, errors.IsValidationError(err))
}
