package rdc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC)

	fecha := FormatDate(at)
	hora := FormatTime(at)
	assert.Equal(t, "20240307", fecha)
	assert.Equal(t, "140509", hora)

	parsed, err := ParseDateTime(fecha, hora)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name    string
		fecha   string
		hora    string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "date and time",
			fecha: "20230115",
			hora:  "093000",
			want:  time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "empty hora means midnight",
			fecha: "20230115",
			want:  time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "malformed date",
			fecha:   "2023-01-15",
			wantErr: true,
		},
		{
			name:    "malformed time",
			fecha:   "20230115",
			hora:    "9:30",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.fecha, tt.hora)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
		})
	}
}

// Lexicographic order of formatted dates must match chronological order;
// the ledger's range filter depends on it.
func TestLexicographicOrderMatchesChronological(t *testing.T) {
	earlier := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.Less(t, FormatDate(earlier), FormatDate(later))
	assert.Less(t, FormatDate(later), FormatDate(later.AddDate(1, 0, 0)))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"same instant", now, 0},
		{"later today rounds up", now.Add(6 * time.Hour), 1},
		{"exactly ten days", now.Add(10 * 24 * time.Hour), 10},
		{"ten days and an hour rounds up", now.Add(10*24*time.Hour + time.Hour), 11},
		{"past deadline is negative", now.Add(-36 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(now, tt.t))
		})
	}
}
