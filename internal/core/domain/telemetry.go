package domain

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ActionStatus is the outcome of one lifecycle action.
type ActionStatus string

const (
	// ActionPending indicates the action has not been reached yet.
	ActionPending ActionStatus = "pending"
	// ActionCompleted indicates the action ran successfully.
	ActionCompleted ActionStatus = "completed"
	// ActionFailed indicates the action ran and failed.
	ActionFailed ActionStatus = "failed"
	// ActionSkipped indicates the action's guard evaluated false.
	ActionSkipped ActionStatus = "skipped"
)

// IsTerminal reports whether the status is final.
func (s ActionStatus) IsTerminal() bool {
	return s != ActionPending
}
