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
	FieldUserID     = "user_id"
	FieldUsername   = "username"
	FieldExpenseID  = "expense_id"
)

// Components
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentExpense = "expense"
	ComponentStorage = "storage"
	ComponentCLI     = "cli"
)

// Operations
const (
	OpCreate   = "create"
	OpList     = "list"
	OpDelete   = "delete"
	OpRegister = "register"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpRender   = "render"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
