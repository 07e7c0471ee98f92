package types

// RunMode is the deployment mode of the process
type RunMode string

const (
	// ModeLocal runs the API server against a local sqlite database
	ModeLocal RunMode = "local"
	// ModeAPI runs the API server against postgres
	ModeAPI RunMode = "api"
)

// LogLevel is the logging verbosity
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTenantID  = "X-Tenant-ID"
	HeaderUserID    = "X-User-ID"
)
