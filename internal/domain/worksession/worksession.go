package worksession

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/biztime"
	"github.com/schoolit/servicedesk/internal/shared/id"
)

var (
	ErrSessionNotFound = errors.New("work session not found")
	ErrSessionClosed   = errors.New("work session already closed")
)

// WorkSession is a technician's on-site shift at one school. A technician
// has at most one open session; storage enforces that through a unique slot
// holding the technician ID while the session is open.
type WorkSession struct {
	id              string
	techID          string
	techName        string
	schoolID        string
	schoolName      string
	date            string
	clockIn         time.Time
	clockOut        *time.Time
	durationMinutes *int
}

func ClockIn(tech shared.Actor, schoolID, schoolName string, now time.Time) (*WorkSession, error) {
	if err := tech.Validate(); err != nil {
		return nil, err
	}
	if schoolID == "" {
		return nil, fmt.Errorf("school ID is required")
	}

	return &WorkSession{
		id:         id.New(id.PrefixWorkSession),
		techID:     tech.ID,
		techName:   tech.DisplayName(),
		schoolID:   schoolID,
		schoolName: schoolName,
		date:       biztime.DateString(now),
		clockIn:    now,
	}, nil
}

func ReconstructWorkSession(
	sessionID, techID, techName, schoolID, schoolName, date string,
	clockIn time.Time,
	clockOut *time.Time,
	durationMinutes *int,
) *WorkSession {
	return &WorkSession{
		id:              sessionID,
		techID:          techID,
		techName:        techName,
		schoolID:        schoolID,
		schoolName:      schoolName,
		date:            date,
		clockIn:         clockIn,
		clockOut:        clockOut,
		durationMinutes: durationMinutes,
	}
}

func (s *WorkSession) ID() string             { return s.id }
func (s *WorkSession) TechID() string         { return s.techID }
func (s *WorkSession) TechName() string       { return s.techName }
func (s *WorkSession) SchoolID() string       { return s.schoolID }
func (s *WorkSession) SchoolName() string     { return s.schoolName }
func (s *WorkSession) Date() string           { return s.date }
func (s *WorkSession) ClockInAt() time.Time   { return s.clockIn }
func (s *WorkSession) ClockOutAt() *time.Time { return s.clockOut }
func (s *WorkSession) DurationMinutes() *int  { return s.durationMinutes }

func (s *WorkSession) IsActive() bool {
	return s.clockOut == nil
}

// ClockOut closes the session. Duration is the elapsed time rounded to the
// nearest whole minute.
func (s *WorkSession) ClockOut(now time.Time) error {
	if !s.IsActive() {
		return ErrSessionClosed
	}
	if now.Before(s.clockIn) {
		return fmt.Errorf("clock-out %s is before clock-in %s", now, s.clockIn)
	}

	t := now
	minutes := DurationMinutes(s.clockIn, now)
	s.clockOut = &t
	s.durationMinutes = &minutes
	return nil
}

// DurationMinutes returns round((to - from) / 1 minute), halves away from zero.
func DurationMinutes(from, to time.Time) int {
	return int(math.Round(float64(to.Sub(from).Milliseconds()) / 60000))
}
