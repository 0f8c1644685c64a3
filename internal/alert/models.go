package alert

import "time"

// Type of notable condition.
type Type string

const (
	TypeExpiringSoon  Type = "EXPIRING_SOON"
	TypeExpired       Type = "EXPIRED"
	TypeUnusualRevoke Type = "UNUSUAL_REVOKE"
	TypeJobError      Type = "JOB_ERROR"
	TypeWebhookFail   Type = "WEBHOOK_FAIL"
)

// State of an alert. Created OPEN; acknowledging is the single transition
// and it is terminal for this model (no un-acknowledge).
type State string

const (
	StateOpen State = "OPEN"
	StateAck  State = "ACK"
)

// Alert is a derived notable condition awaiting human acknowledgment.
type Alert struct {
	ID             string
	Type           Type
	CreatedAt      time.Time
	State          State
	ResourceType   string
	ResourceID     string
	Message        string
	AcknowledgedBy string
	AcknowledgedAt *time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Type         Type
	State        State
	ResourceType string
	ResourceID   string
}
