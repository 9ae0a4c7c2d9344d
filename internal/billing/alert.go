package billing

// AlertLevel grades how urgently the UI should surface a billing state.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Alert is the UI-facing consequence of a billing status. IsLocked
// means the workshop's access is blocked until the state is resolved.
type Alert struct {
	Level    AlertLevel `json:"level"`
	Message  string     `json:"message"`
	IsLocked bool       `json:"isLocked"`
}

// AlertFor maps a status to its alert, or nil when no alert is shown.
// Trial, Paid, and Inactive carry no alert; Trial Expired and
// Suspended lock access; Outstanding and Grace Period warn without
// locking.
func AlertFor(s Status) *Alert {
	switch s {
	case StatusTrialExpired:
		return &Alert{
			Level:    AlertCritical,
			Message:  "Your free trial has ended. Choose a plan to regain access.",
			IsLocked: true,
		}
	case StatusSuspended:
		return &Alert{
			Level:    AlertCritical,
			Message:  "Your subscription payment is overdue and access has been suspended.",
			IsLocked: true,
		}
	case StatusOutstanding:
		return &Alert{
			Level:   AlertInfo,
			Message: "Your subscription renewal is due in the next few days.",
		}
	case StatusGracePeriod:
		return &Alert{
			Level:   AlertWarning,
			Message: "Your subscription payment is overdue. Please pay to avoid suspension.",
		}
	default:
		return nil
	}
}
