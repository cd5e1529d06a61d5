package dto

import (
	"time"

	"github.com/schoolit/servicedesk/internal/domain/worksession"
)

type SessionDTO struct {
	ID              string     `json:"id"`
	TechID          string     `json:"tech_id"`
	TechName        string     `json:"tech_name"`
	SchoolID        string     `json:"school_id"`
	SchoolName      string     `json:"school_name"`
	Date            string     `json:"date"`
	ClockIn         time.Time  `json:"clock_in"`
	ClockOut        *time.Time `json:"clock_out"`
	DurationMinutes *int       `json:"duration_minutes"`
	Active          bool       `json:"active"`
}

type TechnicianHoursDTO struct {
	TechID       string  `json:"tech_id"`
	TechName     string  `json:"tech_name"`
	Sessions     int64   `json:"sessions"`
	TotalMinutes int64   `json:"total_minutes"`
	Hours        float64 `json:"hours"`
}

func ToSessionDTO(s *worksession.WorkSession) *SessionDTO {
	if s == nil {
		return nil
	}
	return &SessionDTO{
		ID:              s.ID(),
		TechID:          s.TechID(),
		TechName:        s.TechName(),
		SchoolID:        s.SchoolID(),
		SchoolName:      s.SchoolName(),
		Date:            s.Date(),
		ClockIn:         s.ClockInAt(),
		ClockOut:        s.ClockOutAt(),
		DurationMinutes: s.DurationMinutes(),
		Active:          s.IsActive(),
	}
}

func ToSessionDTOs(sessions []*worksession.WorkSession) []*SessionDTO {
	out := make([]*SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, ToSessionDTO(s))
	}
	return out
}

func ToTechnicianHoursDTOs(rows []worksession.TechnicianHours) []TechnicianHoursDTO {
	out := make([]TechnicianHoursDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, TechnicianHoursDTO{
			TechID:       r.TechID,
			TechName:     r.TechName,
			Sessions:     r.Sessions,
			TotalMinutes: r.TotalMinutes,
			Hours:        r.Hours(),
		})
	}
	return out
}
