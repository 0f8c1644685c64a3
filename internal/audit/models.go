package audit

import "time"

// Action classifies what an actor did to a resource.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
	ActionRevoke Action = "REVOKE"
	ActionExport Action = "EXPORT"
	ActionImport Action = "IMPORT"
	ActionLogin  Action = "LOGIN"
	ActionLogout Action = "LOGOUT"
)

// ResourceType names the entity family an event refers to.
type ResourceType string

const (
	ResourceConsent ResourceType = "CONSENT"
	ResourceTC      ResourceType = "TC"
	ResourceWidget  ResourceType = "WIDGET"
	ResourceUser    ResourceType = "USER"
	ResourceJob     ResourceType = "JOB"
	ResourceAlert   ResourceType = "ALERT"
	ResourceReport  ResourceType = "REPORT"
)

// Event records one action against one resource. Events are immutable after
// creation; every other component references them but never mutates them.
type Event struct {
	ID           string
	At           time.Time
	ActorUserID  string
	Action       Action
	ResourceType ResourceType
	ResourceID   string
	Payload      map[string]any
}

// Filter narrows List results. All fields are AND-combined; zero values
// match everything.
type Filter struct {
	ActorUserID  string
	Action       Action
	ResourceType ResourceType
	ResourceID   string
	From         time.Time
	To           time.Time
}
