// Package models contains the gorm persistence models. Timestamps are
// stored as UTC epoch milliseconds.
package models

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&SchoolModel{},
		&SchoolMetaModel{},
		&AccountModel{},
		&ServiceCallModel{},
		&CallHistoryModel{},
		&CallNoteModel{},
		&CallSuppliedEquipmentModel{},
		&InventoryItemModel{},
		&InventoryMovementModel{},
		&WorkSessionModel{},
	}
}
