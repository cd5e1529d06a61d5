package worksession

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolit/servicedesk/internal/domain/shared"
)

var (
	t1   = time.Date(2025, 3, 2, 6, 0, 0, 0, time.UTC)
	tech = shared.Actor{ID: "tech_1", Name: "Dana"}
)

func TestClockIn(t *testing.T) {
	s, err := ClockIn(tech, "sch_1", "Ofek", t1)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.ID(), "ws_"))
	assert.True(t, s.IsActive())
	assert.Equal(t, "2025-03-02", s.Date())
	assert.Nil(t, s.DurationMinutes())

	_, err = ClockIn(shared.Actor{}, "sch_1", "", t1)
	assert.Error(t, err)
	_, err = ClockIn(tech, "", "", t1)
	assert.Error(t, err)
}

func TestClockOut_DurationRounding(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{name: "exact minutes", elapsed: 90 * time.Minute, want: 90},
		{name: "rounds down below half", elapsed: 10*time.Minute + 29*time.Second, want: 10},
		{name: "rounds up at half", elapsed: 10*time.Minute + 30*time.Second, want: 11},
		{name: "sub-minute shift", elapsed: 20 * time.Second, want: 0},
		{name: "zero", elapsed: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ClockIn(tech, "sch_1", "Ofek", t1)
			require.NoError(t, err)

			require.NoError(t, s.ClockOut(t1.Add(tt.elapsed)))

			require.NotNil(t, s.DurationMinutes())
			assert.Equal(t, tt.want, *s.DurationMinutes())
			assert.False(t, s.IsActive())
		})
	}
}

func TestClockOut_Twice(t *testing.T) {
	s, err := ClockIn(tech, "sch_1", "Ofek", t1)
	require.NoError(t, err)
	require.NoError(t, s.ClockOut(t1.Add(time.Hour)))

	err = s.ClockOut(t1.Add(2 * time.Hour))
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Equal(t, 60, *s.DurationMinutes())
}

func TestTechnicianHours(t *testing.T) {
	assert.InDelta(t, 1.5, TechnicianHours{TotalMinutes: 90}.Hours(), 1e-9)
}
