package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldMonth     = "month"
	FieldCacheKey  = "cache_key"
	FieldPrefix    = "prefix"
	FieldError     = "error"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentSession = "session"
)
