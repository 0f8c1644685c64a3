package consent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rdc30/pkg/rdc"
)

var derivationNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func recordExpiring(at time.Time) Record {
	return Record{
		Timestamps: RDC30Timestamps{
			OtorgamientoFecha: "20240101",
			OtorgamientoHora:  "100000",
			FinFecha:          rdc.FormatDate(at),
			FinHora:           rdc.FormatTime(at),
		},
	}
}

// The derivation is a strict priority chain: REVOKED > EXPIRED >
// EXPIRING_SOON > ACTIVE, a pure function of the timestamps and now.
func TestStateAt(t *testing.T) {
	revokedAt := derivationNow.Add(-24 * time.Hour)

	tests := []struct {
		name   string
		record Record
		want   State
	}{
		{
			name:   "no expiry is active",
			record: Record{Timestamps: RDC30Timestamps{OtorgamientoFecha: "20240101"}},
			want:   StateActive,
		},
		{
			name:   "far expiry is active",
			record: recordExpiring(derivationNow.Add(90 * 24 * time.Hour)),
			want:   StateActive,
		},
		{
			name:   "expiry within thirty days is expiring soon",
			record: recordExpiring(derivationNow.Add(10 * 24 * time.Hour)),
			want:   StateExpiringSoon,
		},
		{
			name:   "expiry at exactly thirty days is expiring soon",
			record: recordExpiring(derivationNow.Add(30 * 24 * time.Hour)),
			want:   StateExpiringSoon,
		},
		{
			name:   "past expiry is expired",
			record: recordExpiring(derivationNow.Add(-time.Hour)),
			want:   StateExpired,
		},
		{
			name: "revocation wins over past expiry",
			record: func() Record {
				r := recordExpiring(derivationNow.Add(-30 * 24 * time.Hour))
				r.Timestamps.RevokedAt = &revokedAt
				return r
			}(),
			want: StateRevoked,
		},
		{
			name: "revocation wins over active dates",
			record: func() Record {
				r := recordExpiring(derivationNow.Add(300 * 24 * time.Hour))
				r.Timestamps.RevokedAt = &revokedAt
				return r
			}(),
			want: StateRevoked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.StateAt(derivationNow))
		})
	}
}

func TestExpiresAt(t *testing.T) {
	r := recordExpiring(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC))
	exp, ok := r.Timestamps.ExpiresAt()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), exp)

	_, ok = RDC30Timestamps{}.ExpiresAt()
	assert.False(t, ok)
}
