package servicecall

import (
	"time"

	"github.com/schoolit/servicedesk/internal/domain/shared"
	"github.com/schoolit/servicedesk/internal/shared/id"
)

// SuppliedEquipmentRecord notes equipment handed out while working a call.
// Quantity is what the technician asked for, even when stock ran short.
type SuppliedEquipmentRecord struct {
	id        string
	seq       int
	itemID    string
	itemName  string
	quantity  int
	techID    string
	techName  string
	timestamp time.Time
}

func ReconstructSuppliedEquipmentRecord(
	recordID string,
	seq int,
	itemID, itemName string,
	quantity int,
	techID, techName string,
	timestamp time.Time,
) *SuppliedEquipmentRecord {
	return &SuppliedEquipmentRecord{
		id:        recordID,
		seq:       seq,
		itemID:    itemID,
		itemName:  itemName,
		quantity:  quantity,
		techID:    techID,
		techName:  techName,
		timestamp: timestamp,
	}
}

func newSuppliedEquipmentRecord(seq int, itemID, itemName string, quantity int, actor shared.Actor, now time.Time) *SuppliedEquipmentRecord {
	return &SuppliedEquipmentRecord{
		id:        id.New(id.PrefixSupplyRecord),
		seq:       seq,
		itemID:    itemID,
		itemName:  itemName,
		quantity:  quantity,
		techID:    actor.ID,
		techName:  actor.DisplayName(),
		timestamp: now,
	}
}

func (r *SuppliedEquipmentRecord) ID() string           { return r.id }
func (r *SuppliedEquipmentRecord) Seq() int             { return r.seq }
func (r *SuppliedEquipmentRecord) ItemID() string       { return r.itemID }
func (r *SuppliedEquipmentRecord) ItemName() string     { return r.itemName }
func (r *SuppliedEquipmentRecord) Quantity() int        { return r.quantity }
func (r *SuppliedEquipmentRecord) TechID() string       { return r.techID }
func (r *SuppliedEquipmentRecord) TechName() string     { return r.techName }
func (r *SuppliedEquipmentRecord) Timestamp() time.Time { return r.timestamp }
