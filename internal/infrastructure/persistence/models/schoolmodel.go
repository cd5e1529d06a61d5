package models

import (
	"gorm.io/datatypes"

	"github.com/schoolit/servicedesk/internal/shared/constants"
)

type SchoolModel struct {
	ID          string `gorm:"primaryKey;size:32"`
	Name        string `gorm:"size:200;not null"`
	Address     string `gorm:"size:500"`
	ContactName string `gorm:"size:200"`
	WebhookURL  string `gorm:"column:webhook_url;size:1000"`
	CreatedAt   int64  `gorm:"not null"`
	UpdatedAt   int64  `gorm:"not null"`
}

func (SchoolModel) TableName() string {
	return constants.TableSchools
}

// SchoolMetaModel stores one JSON document per (school, kind).
type SchoolMetaModel struct {
	SchoolID  string         `gorm:"primaryKey;size:32"`
	Kind      string         `gorm:"primaryKey;size:32"`
	Payload   datatypes.JSON `gorm:"type:json;not null"`
	UpdatedAt int64          `gorm:"not null"`
}

func (SchoolMetaModel) TableName() string {
	return constants.TableSchoolMeta
}

type AccountModel struct {
	ID          string `gorm:"primaryKey;size:32"`
	SchoolID    string `gorm:"size:32;not null;index"`
	Role        string `gorm:"size:32;not null"`
	DisplayName string `gorm:"size:200;not null"`
	Email       string `gorm:"size:200;index"`
	CreatedAt   int64  `gorm:"not null"`
}

func (AccountModel) TableName() string {
	return constants.TableAccounts
}
