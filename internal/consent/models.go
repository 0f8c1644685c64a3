package consent

import (
	"time"

	"rdc30/pkg/rdc"
)

// State is the lifecycle state of a consent. It is derived from the record's
// timestamps and the current instant, never set directly; the only write that
// influences it is the revoke transition, which is terminal.
type State string

const (
	StateActive       State = "ACTIVE"
	StateExpiringSoon State = "EXPIRING_SOON"
	StateExpired      State = "EXPIRED"
	StateRevoked      State = "REVOKED"
)

// Medio is the channel through which the consent was captured.
type Medio string

const (
	MedioElectronic Medio = "ELECTRONIC"
	MedioVerbal     Medio = "VERBAL"
	MedioWritten    Medio = "WRITTEN"
)

// Finalidad is the regulatory purpose of the grant.
type Finalidad string

const (
	FinalidadRiskCommercial Finalidad = "RISK_COMMERCIAL"
	FinalidadRiskCredit     Finalidad = "RISK_CREDIT"
)

// Objetivo is the credit objective the grant covers.
type Objetivo string

const (
	ObjetivoCreditoComercial Objetivo = "CREDITO_COMERCIAL"
	ObjetivoConsumo          Objetivo = "CONSUMO"
	ObjetivoVivienda         Objetivo = "VIVIENDA"
	ObjetivoFinanciero       Objetivo = "FINANCIERO"
	ObjetivoInstrumentoDeuda Objetivo = "INSTRUMENTO_DEUDA"
	ObjetivoContingente      Objetivo = "CONTINGENTE"
	ObjetivoLineaLibre       Objetivo = "LINEA_LIBRE"
)

// Person identifies the granting party. Rut is a free-form external
// identifier and the natural join key for the consumer profile view.
type Person struct {
	Rut   string
	Name  string
	Email string
}

// RDC30Timestamps carries the grant and expiration instants in the
// regulatory fixed-width formats, plus the full revocation instant.
type RDC30Timestamps struct {
	OtorgamientoFecha string // YYYYMMDD
	OtorgamientoHora  string // HHMMSS
	FinFecha          string // YYYYMMDD, empty when the grant has no expiry
	FinHora           string // HHMMSS
	RevokedAt         *time.Time
}

// ExpiresAt resolves the expiration instant, when one is set.
func (t RDC30Timestamps) ExpiresAt() (time.Time, bool) {
	if t.FinFecha == "" {
		return time.Time{}, false
	}
	exp, err := rdc.ParseDateTime(t.FinFecha, t.FinHora)
	if err != nil {
		return time.Time{}, false
	}
	return exp, true
}

// ExpiryWarningDays is the default window before expiration in which a
// consent is reported as EXPIRING_SOON.
const ExpiryWarningDays = 30

// Record is a consent grant. State is refreshed from StateAt on every read.
type Record struct {
	ID        string
	IDInterno string
	IDExterno string

	Person Person

	CodigoInstitucion string
	Medio             Medio
	Finalidad         Finalidad
	Objetivo          Objetivo
	RutEjecutivo      string

	Sucursal  string
	Ubicacion string
	IP        string
	Navegador string

	VersionTC   string
	WidgetID    string
	TcVersionID string

	Timestamps RDC30Timestamps

	State State
	Meta  map[string]string

	CreatedBy     string
	LastUpdatedBy string
}

// StateAt derives the lifecycle state at the given instant. The rules form a
// strict priority chain: revocation wins regardless of dates, expiration wins
// over the warning window.
func (r *Record) StateAt(now time.Time) State {
	if r.Timestamps.RevokedAt != nil {
		return StateRevoked
	}
	exp, ok := r.Timestamps.ExpiresAt()
	if !ok {
		return StateActive
	}
	if exp.Before(now) {
		return StateExpired
	}
	if rdc.DaysUntil(now, exp) <= ExpiryWarningDays {
		return StateExpiringSoon
	}
	return StateActive
}
