package consent

import "time"

// Stats is an aggregate snapshot over a set of consent records.
type Stats struct {
	Total        int
	Active       int
	ExpiringSoon int
	Expired      int
	Revoked      int
	ByMedio      map[Medio]int
	ByFinalidad  map[Finalidad]int
}

// StatsOf aggregates records in a single pass, deriving each state at now.
// GetStats and the report builder share this so both always reflect the same
// derivation rule.
func StatsOf(records []Record, now time.Time) Stats {
	stats := Stats{
		ByMedio: map[Medio]int{
			MedioElectronic: 0,
			MedioVerbal:     0,
			MedioWritten:    0,
		},
		ByFinalidad: map[Finalidad]int{
			FinalidadRiskCommercial: 0,
			FinalidadRiskCredit:     0,
		},
	}
	for i := range records {
		stats.Total++
		switch records[i].StateAt(now) {
		case StateActive:
			stats.Active++
		case StateExpiringSoon:
			stats.ExpiringSoon++
		case StateExpired:
			stats.Expired++
		case StateRevoked:
			stats.Revoked++
		}
		stats.ByMedio[records[i].Medio]++
		stats.ByFinalidad[records[i].Finalidad]++
	}
	return stats
}
