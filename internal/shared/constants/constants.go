package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderXRequestID = "X-Request-ID"
	HeaderActorID    = "X-Actor-Id"
	HeaderActorName  = "X-Actor-Name"

	// Context keys
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableSchools               = "schools"
	TableSchoolMeta            = "school_meta"
	TableAccounts              = "accounts"
	TableServiceCalls          = "service_calls"
	TableCallHistory           = "call_history"
	TableCallNotes             = "call_notes"
	TableCallSuppliedEquipment = "call_supplied_equipment"
	TableInventoryItems        = "inventory_items"
	TableInventoryMovements    = "inventory_movements"
	TableWorkSessions          = "work_sessions"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
)
