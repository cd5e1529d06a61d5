package models

import "github.com/schoolit/servicedesk/internal/shared/constants"

// WorkSessionModel keeps the technician ID in ActiveTechID while the session
// is open and NULL afterwards. The unique index on it allows one open
// session per technician.
type WorkSessionModel struct {
	ID              string  `gorm:"primaryKey;size:32"`
	TechID          string  `gorm:"size:64;not null;index"`
	TechName        string  `gorm:"size:200"`
	SchoolID        string  `gorm:"size:32;not null;index"`
	SchoolName      string  `gorm:"size:200"`
	Date            string  `gorm:"size:10;not null;index"`
	ClockIn         int64   `gorm:"not null;index"`
	ClockOut        *int64
	DurationMinutes *int
	ActiveTechID    *string `gorm:"size:64;uniqueIndex:uk_work_sessions_active_tech"`
}

func (WorkSessionModel) TableName() string {
	return constants.TableWorkSessions
}
