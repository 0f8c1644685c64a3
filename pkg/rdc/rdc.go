// Package rdc implements the RDC30 fixed-width date and time conventions.
//
// RDC30 records carry dates as YYYYMMDD and times as HHMMSS. The fixed-width
// format is load-bearing: lexicographic comparison of two formatted dates is
// identical to chronological comparison, which the consent ledger relies on
// for range filtering and ordering.
package rdc

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the RDC30 date format (YYYYMMDD).
	DateLayout = "20060102"
	// TimeLayout is the RDC30 time format (HHMMSS).
	TimeLayout = "150405"
)

// FormatDate renders t as an RDC30 date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders t as an RDC30 time string.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseDate parses an RDC30 date string into a UTC instant at midnight.
func ParseDate(fecha string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, fecha, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse rdc date %q: %w", fecha, err)
	}
	return t, nil
}

// ParseDateTime combines an RDC30 date and time string into a UTC instant.
// An empty hora is treated as midnight.
func ParseDateTime(fecha, hora string) (time.Time, error) {
	if hora == "" {
		return ParseDate(fecha)
	}
	t, err := time.ParseInLocation(DateLayout+TimeLayout, fecha+hora, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse rdc datetime %q %q: %w", fecha, hora, err)
	}
	return t, nil
}

// DaysUntil returns the number of whole or partial days from now until t,
// rounding up. A deadline later today counts as 1; a past deadline is
// negative or zero.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}
