package servicecall

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/schoolit/servicedesk/internal/domain/servicecall/valueobjects"
	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/id"
)

const (
	SourceApp = "app"

	maxDescriptionLength = 5000
)

// ServiceCall is the ticket aggregate. Notes, supplied equipment and history
// only grow; each mutator appends exactly one HistoryEntry and stamps every
// timestamp it writes with the same now.
type ServiceCall struct {
	id                string
	schoolID          string
	schoolName        string
	status            vo.CallStatus
	priority          vo.Priority
	category          vo.Category
	description       string
	client            Client
	location          Location
	locationDisplay   string
	source            string
	notes             []*Note
	suppliedEquipment []*SuppliedEquipmentRecord
	history           []*HistoryEntry
	lastHandledBy     string
	lastHandledByName string
	lastHandledAt     *time.Time
	createdAt         time.Time
	updatedAt         time.Time
	resolvedAt        *time.Time
	closedAt          *time.Time
	version           int

	// counts already in storage; entries past them are pending inserts
	persistedNotes    int
	persistedSupplies int
	persistedHistory  int
}

// NewCallParams carries everything needed to open a call.
type NewCallParams struct {
	SchoolID        string
	SchoolName      string
	Category        vo.Category
	Description     string
	Client          Client
	Location        Location
	LocationDisplay string
	Source          string
}

func NewServiceCall(p NewCallParams, now time.Time) (*ServiceCall, error) {
	description := strings.TrimSpace(p.Description)
	if p.SchoolID == "" {
		return nil, fmt.Errorf("school ID is required")
	}
	if description == "" {
		return nil, ErrDescriptionMissing
	}
	if len(description) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	if !p.Category.IsWellFormed() {
		return nil, fmt.Errorf("invalid category: %q", p.Category)
	}
	if p.Client.ID == "" {
		return nil, fmt.Errorf("client ID is required")
	}

	source := p.Source
	if source == "" {
		source = SourceApp
	}
	display := p.LocationDisplay
	if display == "" {
		display = p.Location.Display()
	}

	c := &ServiceCall{
		id:                id.New(id.PrefixServiceCall),
		schoolID:          p.SchoolID,
		schoolName:        p.SchoolName,
		status:            vo.StatusNew,
		priority:          vo.PriorityNone,
		category:          p.Category,
		description:       description,
		client:            p.Client,
		location:          p.Location,
		locationDisplay:   display,
		source:            source,
		notes:             []*Note{},
		suppliedEquipment: []*SuppliedEquipmentRecord{},
		history:           []*HistoryEntry{},
		createdAt:         now,
		updatedAt:         now,
	}

	opener := shared.Actor{ID: p.Client.ID, Name: p.Client.Name}
	c.appendHistory(newHistoryEntry(c.nextHistorySeq(), vo.ActionCreated, "Call opened", opener, now))

	return c, nil
}

// ReconstructParams is the persisted state of a call.
type ReconstructParams struct {
	ID                string
	SchoolID          string
	SchoolName        string
	Status            vo.CallStatus
	Priority          vo.Priority
	Category          vo.Category
	Description       string
	Client            Client
	Location          Location
	LocationDisplay   string
	Source            string
	Notes             []*Note
	SuppliedEquipment []*SuppliedEquipmentRecord
	History           []*HistoryEntry
	LastHandledBy     string
	LastHandledByName string
	LastHandledAt     *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ResolvedAt        *time.Time
	ClosedAt          *time.Time
	Version           int
}

func ReconstructServiceCall(p ReconstructParams) (*ServiceCall, error) {
	if p.ID == "" {
		return nil, fmt.Errorf("service call ID is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.Priority.IsSet() && !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}

	notes := p.Notes
	if notes == nil {
		notes = []*Note{}
	}
	supplies := p.SuppliedEquipment
	if supplies == nil {
		supplies = []*SuppliedEquipmentRecord{}
	}
	history := p.History
	if history == nil {
		history = []*HistoryEntry{}
	}

	return &ServiceCall{
		id:                p.ID,
		schoolID:          p.SchoolID,
		schoolName:        p.SchoolName,
		status:            p.Status,
		priority:          p.Priority,
		category:          p.Category,
		description:       p.Description,
		client:            p.Client,
		location:          p.Location,
		locationDisplay:   p.LocationDisplay,
		source:            p.Source,
		notes:             notes,
		suppliedEquipment: supplies,
		history:           history,
		lastHandledBy:     p.LastHandledBy,
		lastHandledByName: p.LastHandledByName,
		lastHandledAt:     p.LastHandledAt,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
		resolvedAt:        p.ResolvedAt,
		closedAt:          p.ClosedAt,
		version:           p.Version,
		persistedNotes:    len(notes),
		persistedSupplies: len(supplies),
		persistedHistory:  len(history),
	}, nil
}

func (c *ServiceCall) ID() string                { return c.id }
func (c *ServiceCall) SchoolID() string          { return c.schoolID }
func (c *ServiceCall) SchoolName() string        { return c.schoolName }
func (c *ServiceCall) Status() vo.CallStatus     { return c.status }
func (c *ServiceCall) Priority() vo.Priority     { return c.priority }
func (c *ServiceCall) Category() vo.Category     { return c.category }
func (c *ServiceCall) Description() string       { return c.description }
func (c *ServiceCall) Client() Client            { return c.client }
func (c *ServiceCall) Location() Location        { return c.location }
func (c *ServiceCall) LocationDisplay() string   { return c.locationDisplay }
func (c *ServiceCall) Source() string            { return c.source }
func (c *ServiceCall) LastHandledBy() string     { return c.lastHandledBy }
func (c *ServiceCall) LastHandledByName() string { return c.lastHandledByName }
func (c *ServiceCall) LastHandledAt() *time.Time { return c.lastHandledAt }
func (c *ServiceCall) CreatedAt() time.Time      { return c.createdAt }
func (c *ServiceCall) UpdatedAt() time.Time      { return c.updatedAt }
func (c *ServiceCall) ResolvedAt() *time.Time    { return c.resolvedAt }
func (c *ServiceCall) ClosedAt() *time.Time      { return c.closedAt }
func (c *ServiceCall) Version() int              { return c.version }

func (c *ServiceCall) Notes() []*Note {
	out := make([]*Note, len(c.notes))
	copy(out, c.notes)
	return out
}

func (c *ServiceCall) SuppliedEquipment() []*SuppliedEquipmentRecord {
	out := make([]*SuppliedEquipmentRecord, len(c.suppliedEquipment))
	copy(out, c.suppliedEquipment)
	return out
}

// History returns entries in insertion order.
func (c *ServiceCall) History() []*HistoryEntry {
	out := make([]*HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}

// IsNew reports whether the call has never been stored.
func (c *ServiceCall) IsNew() bool {
	return c.persistedHistory == 0
}

// PendingNotes returns notes appended since the call was loaded.
func (c *ServiceCall) PendingNotes() []*Note {
	return c.notes[c.persistedNotes:]
}

func (c *ServiceCall) PendingSuppliedEquipment() []*SuppliedEquipmentRecord {
	return c.suppliedEquipment[c.persistedSupplies:]
}

func (c *ServiceCall) PendingHistory() []*HistoryEntry {
	return c.history[c.persistedHistory:]
}

// MarkPersisted is called by the repository after a successful write.
func (c *ServiceCall) MarkPersisted(version int) {
	c.version = version
	c.persistedNotes = len(c.notes)
	c.persistedSupplies = len(c.suppliedEquipment)
	c.persistedHistory = len(c.history)
}

// TransitionStatus moves the call to next. Any known status may follow any
// other; the entry is flagged off-graph when the move is outside the nominal
// workflow. resolvedAt and closedAt are set the first time their status is
// reached and never cleared.
func (c *ServiceCall) TransitionStatus(next vo.CallStatus, actor shared.Actor, now time.Time) (*HistoryEntry, error) {
	if !next.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", next)
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	prev := c.status
	c.status = next

	if next.IsResolved() && c.resolvedAt == nil {
		t := now
		c.resolvedAt = &t
	}
	if next.IsClosed() && c.closedAt == nil {
		t := now
		c.closedAt = &t
	}

	c.markHandled(actor, now)

	entry := newHistoryEntry(
		c.nextHistorySeq(),
		vo.ActionStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", prev, next),
		actor, now,
	).withValues(prev.String(), next.String())
	entry.offGraph = !prev.IsOnGraph(next)

	c.appendHistory(entry)
	return entry, nil
}

// SetPriority leaves the lastHandled fields alone: triage is not handling.
func (c *ServiceCall) SetPriority(p vo.Priority, actor shared.Actor, now time.Time) (*HistoryEntry, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p)
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	prev := c.priority
	c.priority = p
	c.updatedAt = now

	entry := newHistoryEntry(
		c.nextHistorySeq(),
		vo.ActionPrioritySet,
		fmt.Sprintf("Priority set to %s", p),
		actor, now,
	).withValues(prev.String(), p.String())

	c.appendHistory(entry)
	return entry, nil
}

func (c *ServiceCall) SetCategory(cat vo.Category, actor shared.Actor, now time.Time) (*HistoryEntry, error) {
	if !cat.IsWellFormed() {
		return nil, fmt.Errorf("invalid category: %q", cat)
	}
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	prev := c.category
	c.category = cat
	c.markHandled(actor, now)

	entry := newHistoryEntry(
		c.nextHistorySeq(),
		vo.ActionCategoryChanged,
		fmt.Sprintf("Category changed from %s to %s", prev, cat),
		actor, now,
	).withValues(prev.String(), cat.String())

	c.appendHistory(entry)
	return entry, nil
}

// AddNote appends a note. text must already be sanitized; the audit entry
// quotes its first previewLength runes.
func (c *ServiceCall) AddNote(text string, actor shared.Actor, now time.Time, previewLength int) (*Note, *HistoryEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, ErrEmptyNote
	}
	if err := actor.Validate(); err != nil {
		return nil, nil, err
	}

	note := newNote(len(c.notes)+1, text, actor, now)
	c.notes = append(c.notes, note)
	c.markHandled(actor, now)

	entry := newHistoryEntry(c.nextHistorySeq(), vo.ActionNoteAdded, notePreview(text, previewLength), actor, now)
	c.appendHistory(entry)
	return note, entry, nil
}

// RecordSupply appends a supplied-equipment record carrying the full
// requested quantity. Stock bookkeeping is the inventory item's concern.
func (c *ServiceCall) RecordSupply(itemID, itemName string, quantity int, actor shared.Actor, now time.Time) (*SuppliedEquipmentRecord, *HistoryEntry, error) {
	if quantity < 1 {
		return nil, nil, ErrInvalidQuantity
	}
	if itemID == "" {
		return nil, nil, fmt.Errorf("item ID is required")
	}
	if err := actor.Validate(); err != nil {
		return nil, nil, err
	}

	record := newSuppliedEquipmentRecord(len(c.suppliedEquipment)+1, itemID, itemName, quantity, actor, now)
	c.suppliedEquipment = append(c.suppliedEquipment, record)
	c.markHandled(actor, now)

	entry := newHistoryEntry(
		c.nextHistorySeq(),
		vo.ActionEquipmentSupplied,
		fmt.Sprintf("Supplied: %s x%d", itemName, quantity),
		actor, now,
	)
	c.appendHistory(entry)
	return record, entry, nil
}

// ResolutionTime is resolvedAt minus createdAt, or false while unresolved.
func (c *ServiceCall) ResolutionTime() (time.Duration, bool) {
	if c.resolvedAt == nil {
		return 0, false
	}
	return c.resolvedAt.Sub(c.createdAt), true
}

func (c *ServiceCall) markHandled(actor shared.Actor, now time.Time) {
	t := now
	c.lastHandledBy = actor.ID
	c.lastHandledByName = actor.DisplayName()
	c.lastHandledAt = &t
	c.updatedAt = now
}

func (c *ServiceCall) nextHistorySeq() int {
	return len(c.history) + 1
}

func (c *ServiceCall) appendHistory(e *HistoryEntry) {
	c.history = append(c.history, e)
}
