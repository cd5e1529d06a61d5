package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/domain/worksession"
	"github.com/schoolit/servicedesk/internal/shared/db"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

func TestWorkSessionRepository_OneOpenSessionPerTechnician(t *testing.T) {
	repo := NewWorkSessionRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()

	first, err := worksession.ClockIn(tech, "sch_1", "Ofek", base)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := worksession.ClockIn(tech, "sch_2", "Rimon", base.Add(time.Minute))
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, second), db.ErrConcurrentModification)

	active, err := repo.GetActiveByTechnician(ctx, tech.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID(), active.ID())

	require.NoError(t, first.ClockOut(base.Add(90*time.Second)))
	require.NoError(t, repo.Close(ctx, first))
	assert.ErrorIs(t, repo.Close(ctx, first), db.ErrConcurrentModification)

	active, err = repo.GetActiveByTechnician(ctx, tech.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	require.NoError(t, repo.Create(ctx, second), "slot is free after clock-out")

	closed, err := repo.GetByID(ctx, first.ID())
	require.NoError(t, err)
	require.NotNil(t, closed.DurationMinutes())
	assert.Equal(t, 2, *closed.DurationMinutes())
	assert.False(t, closed.IsActive())
}

func TestWorkSessionRepository_ListAndHours(t *testing.T) {
	repo := NewWorkSessionRepository(setupTestDB(t), logger.NewNop())
	ctx := context.Background()
	other := shared.Actor{ID: "tech_2", Name: "Yoni"}

	shift := func(actor shared.Actor, schoolID string, start time.Time, minutes int) {
		s, err := worksession.ClockIn(actor, schoolID, "", start)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, s))
		require.NoError(t, s.ClockOut(start.Add(time.Duration(minutes)*time.Minute)))
		require.NoError(t, repo.Close(ctx, s))
	}

	day := time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC)
	shift(tech, "sch_1", day, 120)
	shift(tech, "sch_2", day.Add(3*time.Hour), 60)
	shift(other, "sch_1", day, 30)
	shift(tech, "sch_1", day.Add(48*time.Hour), 15)

	open, err := worksession.ClockIn(other, "sch_1", "", day.Add(5*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, open))

	sessions, total, err := repo.List(ctx, worksession.Filter{TechID: tech.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, sessions, 3)
	assert.Equal(t, day.Add(48*time.Hour), sessions[0].ClockInAt())

	hours, err := repo.HoursByTechnician(ctx, worksession.Filter{DateFrom: "2025-03-02", DateTo: "2025-03-02"})
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, tech.ID, hours[0].TechID)
	assert.Equal(t, int64(180), hours[0].TotalMinutes)
	assert.Equal(t, int64(2), hours[0].Sessions)
	assert.InDelta(t, 3.0, hours[0].Hours(), 0.0001)
	assert.Equal(t, int64(30), hours[1].TotalMinutes, "open sessions are not counted")

	bySchool, err := repo.HoursByTechnician(ctx, worksession.Filter{SchoolID: "sch_2"})
	require.NoError(t, err)
	require.Len(t, bySchool, 1)
	assert.Equal(t, int64(60), bySchool[0].TotalMinutes)
}
