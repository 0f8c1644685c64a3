package terms

import "time"

// Status of a terms-and-conditions version.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// Version is a versioned terms-and-conditions document for one product.
//
// Invariant: at most one PUBLISHED version per ProductID at any time.
// Publish is the only transition that sets StatusPublished and it demotes the
// prior published version of the same product in the same critical section.
type Version struct {
	ID          string
	ProductID   string
	Version     string
	Title       string
	Content     string
	Status      Status
	PublishedAt *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	ProductID string
	Status    Status
}
