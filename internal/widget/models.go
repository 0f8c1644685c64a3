package widget

import "time"

// Brand carries the visual identity a widget renders with.
type Brand struct {
	LogoURL      string
	PrimaryColor string
}

// Texts are the customer-facing strings of a capture widget.
type Texts struct {
	Title    string
	Subtitle string
}

// Widget is a per-product consent-capture configuration. ActiveTcVersionID
// must reference a currently published terms version; the store enforces the
// reference on create and update.
type Widget struct {
	ID                string
	ProductID         string
	Name              string
	Brand             Brand
	Texts             Texts
	ActiveTcVersionID string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// Filter narrows List results. IsActive is a pointer so "unset" and "false"
// stay distinguishable.
type Filter struct {
	ProductID string
	IsActive  *bool
}
