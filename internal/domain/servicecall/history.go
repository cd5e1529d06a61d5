package servicecall

import (
	"time"

	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/id"
)

// HistoryEntry is one immutable audit record. Every mutating operation on a
// ServiceCall appends exactly one.
type HistoryEntry struct {
	id              string
	seq             int
	action          vo.HistoryAction
	description     string
	performedBy     string
	performedByName string
	oldValue        *string
	newValue        *string
	offGraph        bool
	timestamp       time.Time
}

func newHistoryEntry(seq int, action vo.HistoryAction, description string, actor shared.Actor, now time.Time) *HistoryEntry {
	return &HistoryEntry{
		id:              id.New(id.PrefixHistoryEntry),
		seq:             seq,
		action:          action,
		description:     description,
		performedBy:     actor.ID,
		performedByName: actor.DisplayName(),
		timestamp:       now,
	}
}

func (h *HistoryEntry) withValues(oldValue, newValue string) *HistoryEntry {
	if oldValue != "" {
		h.oldValue = &oldValue
	}
	if newValue != "" {
		h.newValue = &newValue
	}
	return h
}

func ReconstructHistoryEntry(
	entryID string,
	seq int,
	action vo.HistoryAction,
	description string,
	performedBy, performedByName string,
	oldValue, newValue *string,
	offGraph bool,
	timestamp time.Time,
) *HistoryEntry {
	return &HistoryEntry{
		id:              entryID,
		seq:             seq,
		action:          action,
		description:     description,
		performedBy:     performedBy,
		performedByName: performedByName,
		oldValue:        oldValue,
		newValue:        newValue,
		offGraph:        offGraph,
		timestamp:       timestamp,
	}
}

func (h *HistoryEntry) ID() string               { return h.id }
func (h *HistoryEntry) Seq() int                 { return h.seq }
func (h *HistoryEntry) Action() vo.HistoryAction { return h.action }
func (h *HistoryEntry) Description() string      { return h.description }
func (h *HistoryEntry) PerformedBy() string      { return h.performedBy }
func (h *HistoryEntry) PerformedByName() string  { return h.performedByName }
func (h *HistoryEntry) OldValue() *string        { return h.oldValue }
func (h *HistoryEntry) NewValue() *string        { return h.newValue }
func (h *HistoryEntry) Timestamp() time.Time     { return h.timestamp }

// OffGraph marks a status change outside the nominal workflow.
func (h *HistoryEntry) OffGraph() bool { return h.offGraph }
