package servicecall

import (
	"time"
	"unicode/utf8"

	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/id"
)

// DefaultNotePreviewLength is how many runes of a note the audit entry quotes.
const DefaultNotePreviewLength = 50

type Note struct {
	id        string
	seq       int
	techID    string
	techName  string
	text      string
	timestamp time.Time
}

func ReconstructNote(noteID string, seq int, techID, techName, text string, timestamp time.Time) *Note {
	return &Note{
		id:        noteID,
		seq:       seq,
		techID:    techID,
		techName:  techName,
		text:      text,
		timestamp: timestamp,
	}
}

func newNote(seq int, text string, actor shared.Actor, now time.Time) *Note {
	return &Note{
		id:        id.New(id.PrefixNote),
		seq:       seq,
		techID:    actor.ID,
		techName:  actor.DisplayName(),
		text:      text,
		timestamp: now,
	}
}

func (n *Note) ID() string           { return n.id }
func (n *Note) Seq() int             { return n.seq }
func (n *Note) TechID() string       { return n.techID }
func (n *Note) TechName() string     { return n.techName }
func (n *Note) Text() string         { return n.text }
func (n *Note) Timestamp() time.Time { return n.timestamp }

// notePreview cuts text to max runes and appends "..." when anything was cut.
func notePreview(text string, max int) string {
	if max <= 0 {
		max = DefaultNotePreviewLength
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}
