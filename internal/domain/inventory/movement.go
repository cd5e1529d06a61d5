package inventory

import (
	"strings"
	"time"

	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/id"
)

type MovementKind string

const (
	MovementSupply  MovementKind = "supply"
	MovementRestock MovementKind = "restock"
	MovementAdjust  MovementKind = "adjust"
	// MovementUpdate records a catalogue change; stock is untouched.
	MovementUpdate MovementKind = "update"
)

// Movement is one ledger row per stock mutation. Requested and Applied
// differ when a withdrawal was clamped at zero.
type Movement struct {
	ID         string
	ItemID     string
	Kind       MovementKind
	Requested  int
	Applied    int
	StockAfter int
	CallID     string
	ActorID    string
	ActorName  string
	Detail     string
	Timestamp  time.Time
}

func NewMovement(item *Item, kind MovementKind, requested, applied int, callID string, actor shared.Actor, now time.Time) *Movement {
	return &Movement{
		ID:         id.New(id.PrefixMovement),
		ItemID:     item.ID(),
		Kind:       kind,
		Requested:  requested,
		Applied:    applied,
		StockAfter: item.InStock(),
		CallID:     callID,
		ActorID:    actor.ID,
		ActorName:  actor.DisplayName(),
		Timestamp:  now,
	}
}

// NewUpdateMovement records catalogue changes made by actor.
func NewUpdateMovement(item *Item, changes []string, actor shared.Actor, now time.Time) *Movement {
	m := NewMovement(item, MovementUpdate, 0, 0, "", actor, now)
	m.Detail = strings.Join(changes, "; ")
	return m
}

// Clamped reports whether less was applied than requested.
func (m *Movement) Clamped() bool {
	return m.Requested != m.Applied
}
