package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldBackend    = "backend"
	FieldActivityID = "activity_id"
	FieldCategory   = "category"
	FieldCount      = "count"
	FieldSkipped    = "skipped"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentBackend  = "backend"
	ComponentStorage  = "storage"
	ComponentSheets   = "sheets"
	ComponentTransfer = "transfer"
)

// Operations defines standard operation names
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpList   = "list"
	OpReload = "reload"
	OpImport = "import"
	OpExport = "export"
)
