package job

import "time"

// Type of bulk task.
type Type string

const (
	TypeImport Type = "IMPORT"
	TypeExport Type = "EXPORT"
)

// Format of the file behind the task.
type Format string

const (
	FormatCSV  Format = "CSV"
	FormatXLSX Format = "XLSX"
	FormatJSON Format = "JSON"
)

// Status of a task.
//
// State machine: QUEUED → RUNNING → {SUCCESS, ERROR}. The terminal states
// stamp CompletedAt and admit no further transition.
type Status string

const (
	StatusQueued  Status = "QUEUED"
	StatusRunning Status = "RUNNING"
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// IsTerminal reports whether the status admits no further transition.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

// CanTransitionTo reports whether the state machine allows the move.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusQueued:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusSuccess || next == StatusError
	default:
		return false
	}
}

// Job tracks one import/export task lifecycle. The alert engine consumes
// ERROR jobs as a failure feed.
type Job struct {
	ID               string
	Type             Type
	Format           Format
	Status           Status
	CreatedAt        time.Time
	CreatedBy        string
	CompletedAt      *time.Time
	ErrorMessage     string
	RecordsProcessed int
	RecordsTotal     int
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Type      Type
	Status    Status
	CreatedBy string
}
