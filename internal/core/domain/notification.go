package domain

// Severity classifies a notification for the consumer.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notification is one event emitted by the checker: an available update or a
// recoverable failure. The consumer (CLI, GUI layer, logger) decides how to
// render it; the checker never blocks on delivery.
type Notification struct {
	Text     string
	Caption  string
	Severity Severity

	// Kind is set for failure notifications and empty for update
	// notifications.
	Kind FailureKind
}
