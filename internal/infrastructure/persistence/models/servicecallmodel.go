package models

import (
	"gorm.io/datatypes"

	"github.com/schoolit/servicedesk/internal/shared/constants"
)

// LocationJSON is the stored shape of a call's location.
type LocationJSON struct {
	FloorLabel    string `json:"floorLabel"`
	CategoryLabel string `json:"categoryLabel"`
	RoomLabel     string `json:"roomLabel"`
	RoomNumber    string `json:"roomNumber"`
}

type ServiceCallModel struct {
	ID                string                               `gorm:"primaryKey;size:32"`
	SchoolID          string                               `gorm:"size:32;not null;index:idx_calls_school_created,priority:1"`
	SchoolName        string                               `gorm:"size:200"`
	Status            string                               `gorm:"size:32;not null;index"`
	Priority          *string                              `gorm:"size:16"`
	Category          string                               `gorm:"size:50;not null;index"`
	Description       string                               `gorm:"type:text;not null"`
	ClientID          string                               `gorm:"size:64;not null;index"`
	ClientName        string                               `gorm:"size:200"`
	ClientPhone       string                               `gorm:"size:50"`
	ClientEmail       string                               `gorm:"size:200"`
	Location          datatypes.JSONType[LocationJSON]     `gorm:"type:json"`
	RoomNumber        string                               `gorm:"size:50;index"`
	LocationDisplay   string                               `gorm:"size:500"`
	Source            string                               `gorm:"size:32;not null;default:app"`
	LastHandledBy     string                               `gorm:"size:64"`
	LastHandledByName string                               `gorm:"size:200"`
	LastHandledAt     *int64
	CreatedAt         int64 `gorm:"not null;index:idx_calls_school_created,priority:2"`
	UpdatedAt         int64 `gorm:"not null"`
	ResolvedAt        *int64
	ClosedAt          *int64
	Version           int `gorm:"not null;default:1"`

	// Child rows live in their own tables and are loaded explicitly.
}

func (ServiceCallModel) TableName() string {
	return constants.TableServiceCalls
}

type CallHistoryModel struct {
	ID              string  `gorm:"primaryKey;size:32"`
	CallID          string  `gorm:"size:32;not null;uniqueIndex:uk_call_history_seq,priority:1"`
	Seq             int     `gorm:"not null;uniqueIndex:uk_call_history_seq,priority:2"`
	Action          string  `gorm:"size:32;not null"`
	Description     string  `gorm:"type:text"`
	PerformedBy     string  `gorm:"size:64;not null"`
	PerformedByName string  `gorm:"size:200"`
	OldValue        *string `gorm:"size:100"`
	NewValue        *string `gorm:"size:100"`
	OffGraph        bool    `gorm:"not null;default:false;index"`
	RecordedAt      int64   `gorm:"not null"`
}

func (CallHistoryModel) TableName() string {
	return constants.TableCallHistory
}

type CallNoteModel struct {
	ID         string `gorm:"primaryKey;size:32"`
	CallID     string `gorm:"size:32;not null;uniqueIndex:uk_call_notes_seq,priority:1"`
	Seq        int    `gorm:"not null;uniqueIndex:uk_call_notes_seq,priority:2"`
	TechID     string `gorm:"size:64;not null"`
	TechName   string `gorm:"size:200"`
	Text       string `gorm:"type:text;not null"`
	RecordedAt int64  `gorm:"not null"`
}

func (CallNoteModel) TableName() string {
	return constants.TableCallNotes
}

type CallSuppliedEquipmentModel struct {
	ID         string `gorm:"primaryKey;size:32"`
	CallID     string `gorm:"size:32;not null;uniqueIndex:uk_call_supplies_seq,priority:1"`
	Seq        int    `gorm:"not null;uniqueIndex:uk_call_supplies_seq,priority:2"`
	ItemID     string `gorm:"size:32;not null;index"`
	ItemName   string `gorm:"size:200"`
	Quantity   int    `gorm:"not null"`
	TechID     string `gorm:"size:64;not null"`
	TechName   string `gorm:"size:200"`
	RecordedAt int64  `gorm:"not null"`
}

func (CallSuppliedEquipmentModel) TableName() string {
	return constants.TableCallSuppliedEquipment
}
