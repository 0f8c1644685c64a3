package report

import "time"

// Type of report. RDC30 is the only regulatory format the engine produces.
type Type string

const TypeRDC30 Type = "RDC30"

// Params scope a report to a grant-date window and optionally one product.
// From and To use the RDC30 YYYYMMDD format.
type Params struct {
	From      string
	To        string
	ProductID string
}

// Row is one metric/value pair. Rows keep their generation order.
type Row struct {
	Metric string
	Value  string
}

// Report is an immutable aggregate snapshot. It is never recomputed after
// creation; re-running with the same params produces a new, independent
// record.
type Report struct {
	ID          string
	Type        Type
	Params      Params
	Rows        []Row
	GeneratedAt time.Time
	GeneratedBy string
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Type        Type
	GeneratedBy string
}
