package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/schoolit/servicedesk/internal/domain/school"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/infrastructure/persistence/models"
	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/infrastructure/repository"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/errors"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

var (
	dana = shared.Actor{ID: "tech_1", Name: "Dana"}
	omer = shared.Actor{ID: "tech_2", Name: "Omer"}
	t0   = time.Date(2025, 3, 2, 7, 0, 0, 0, time.UTC)
)

type tracker struct {
	schoolID string
	clockIn  *ClockInUseCase
	clockOut *ClockOutUseCase
	active   *ActiveSessionUseCase
	list     *ListSessionsUseCase
	hours    *HoursByTechnicianUseCase
	pub      *pubsub.LocalChangeBus
}

func newTracker(t *testing.T) *tracker {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(models.All()...))

	log := logger.NewNop()
	sessionRepo := repository.NewWorkSessionRepository(gdb, log)
	schoolRepo := repository.NewSchoolRepository(gdb, log)
	txMgr := db.NewTransactionManager(gdb, db.WithRetryPolicy(3, 0))
	bus := pubsub.NewLocalChangeBus(log)

	s, err := school.NewSchool("Ofek", "", "", "", t0)
	require.NoError(t, err)
	require.NoError(t, schoolRepo.Create(context.Background(), s))

	return &tracker{
		schoolID: s.ID(),
		clockIn:  NewClockInUseCase(sessionRepo, schoolRepo, txMgr, bus, log),
		clockOut: NewClockOutUseCase(sessionRepo, txMgr, bus, log),
		active:   NewActiveSessionUseCase(sessionRepo, log),
		list:     NewListSessionsUseCase(sessionRepo, log),
		hours:    NewHoursByTechnicianUseCase(sessionRepo, log),
		pub:      bus,
	}
}

func (tr *tracker) at(ts time.Time) {
	clock := func() time.Time { return ts }
	tr.clockIn.clock = clock
	tr.clockOut.clock = clock
}

func TestClockOut_DurationRounding(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		minutes int
	}{
		{name: "under half a minute rounds down", elapsed: 29 * time.Second, minutes: 0},
		{name: "ninety seconds rounds up", elapsed: 90 * time.Second, minutes: 2},
		{name: "whole hours", elapsed: 3 * time.Hour, minutes: 180},
		{name: "just under a minute past", elapsed: 45*time.Minute + 29*time.Second, minutes: 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(t)
			ctx := context.Background()

			tr.at(t0)
			in, err := tr.clockIn.Execute(ctx, ClockInCommand{Tech: dana, SchoolID: tr.schoolID})
			require.NoError(t, err)
			assert.True(t, in.Session.Active)
			assert.Equal(t, "Ofek", in.Session.SchoolName)
			assert.Nil(t, in.Closed)

			tr.at(t0.Add(tt.elapsed))
			out, err := tr.clockOut.Execute(ctx, ClockOutCommand{SessionID: in.Session.ID})
			require.NoError(t, err)
			require.NotNil(t, out.DurationMinutes)
			assert.Equal(t, tt.minutes, *out.DurationMinutes)
			assert.False(t, out.Active)
		})
	}
}

func TestClockIn_ClosesPreviousOpenSession(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	tr.at(t0)
	first, err := tr.clockIn.Execute(ctx, ClockInCommand{Tech: dana, SchoolID: tr.schoolID})
	require.NoError(t, err)

	tr.at(t0.Add(2 * time.Hour))
	second, err := tr.clockIn.Execute(ctx, ClockInCommand{Tech: dana, SchoolID: tr.schoolID})
	require.NoError(t, err)

	require.NotNil(t, second.Closed)
	assert.Equal(t, first.Session.ID, second.Closed.ID)
	assert.Equal(t, 120, *second.Closed.DurationMinutes)
	assert.NotEqual(t, first.Session.ID, second.Session.ID)

	active, err := tr.active.Execute(ctx, dana.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.Session.ID, active.ID)

	list, err := tr.list.Execute(ctx, ListSessionsQuery{TechID: dana.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	open := 0
	for _, s := range list.Sessions {
		if s.Active {
			open++
		}
	}
	assert.Equal(t, 1, open, "at most one open session per technician")
}

func TestClockOut_Rejections(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	_, err := tr.clockOut.Execute(ctx, ClockOutCommand{SessionID: "ws_missing"})
	assert.True(t, errors.IsNotFoundError(err))

	tr.at(t0)
	in, err := tr.clockIn.Execute(ctx, ClockInCommand{Tech: dana, SchoolID: tr.schoolID})
	require.NoError(t, err)

	tr.at(t0.Add(time.Hour))
	_, err = tr.clockOut.Execute(ctx, ClockOutCommand{SessionID: in.Session.ID})
	require.NoError(t, err)

	_, err = tr.clockOut.Execute(ctx, ClockOutCommand{SessionID: in.Session.ID})
	assert.True(t, errors.IsValidationError(err))

	active, err := tr.active.Execute(ctx, dana.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = tr.clockIn.Execute(ctx, ClockInCommand{Tech: dana, SchoolID: "sch_missing"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestHoursByTechnician(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	shift := func(tech shared.Actor, start time.Time, length time.Duration) {
		tr.at(start)
		in, err := tr.clockIn.Execute(ctx, ClockInCommand{Tech: tech, SchoolID: tr.schoolID})
		require.NoError(t, err)
		tr.at(start.Add(length))
		_, err = tr.clockOut.Execute(ctx, ClockOutCommand{SessionID: in.Session.ID})
		require.NoError(t, err)
	}

	shift(dana, t0, 3*time.Hour)
	shift(dana, t0.Add(24*time.Hour), 90*time.Minute)
	shift(omer, t0, 2*time.Hour)

	rows, err := tr.hours.Execute(ctx, ListSessionsQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, dana.ID, rows[0].TechID)
	assert.EqualValues(t, 270, rows[0].TotalMinutes)
	assert.EqualValues(t, 2, rows[0].Sessions)
	assert.InDelta(t, 4.5, rows[0].Hours, 0.001)

	_, err = tr.hours.Execute(ctx, ListSessionsQuery{DateFrom: "yesterday"})
	assert.True(t, errors.IsValidationError(err))
}
