package valueobjects

type HistoryAction string

const (
	ActionCreated           HistoryAction = "created"
	ActionStatusChanged     HistoryAction = "status_changed"
	ActionPrioritySet       HistoryAction = "priority_set"
	ActionCategoryChanged   HistoryAction = "category_changed"
	ActionNoteAdded         HistoryAction = "note_added"
	ActionEquipmentSupplied HistoryAction = "equipment_supplied"
)

var validHistoryActions = map[HistoryAction]bool{
	ActionCreated:           true,
	ActionStatusChanged:     true,
	ActionPrioritySet:       true,
	ActionCategoryChanged:   true,
	ActionNoteAdded:         true,
	ActionEquipmentSupplied: true,
}

func (a HistoryAction) String() string {
	return string(a)
}

func (a HistoryAction) IsValid() bool {
	return validHistoryActions[a]
}
