package service

import (
	"context"
	"log/slog"

	"github.com/mssola/useragent"

	"rdc30/internal/audit"
	"rdc30/internal/consent"
	"rdc30/internal/platform/metrics"
)

// Ledger is the slice of the consent store the service orchestrates.
type Ledger interface {
	Create(ctx context.Context, r consent.Record) (consent.Record, error)
	Update(ctx context.Context, id string, patch func(*consent.Record)) (consent.Record, error)
	Revoke(ctx context.Context, id, revokedBy string) (consent.Record, error)
}

// Recorder is the audit trail surface the service writes to.
type Recorder interface {
	Append(ctx context.Context, e audit.Event) (audit.Event, error)
}

// Service pairs every mutating ledger operation with an audit trail entry.
// The ledger itself knows nothing about the trail; the pairing is this
// caller's contract, kept in one place so no mutation path can skip it.
type Service struct {
	ledger  Ledger
	trail   Recorder
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(ledger Ledger, trail Recorder, opts ...Option) *Service {
	s := &Service{ledger: ledger, trail: trail}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a new grant, deriving channel tags from the captured
// user-agent, and appends a CREATE audit event attributed to actorUserID.
func (s *Service) Create(ctx context.Context, r consent.Record, actorUserID string) (consent.Record, error) {
	r.CreatedBy = actorUserID
	enrichFromUserAgent(&r)

	created, err := s.ledger.Create(ctx, r)
	if err != nil {
		return consent.Record{}, err
	}
	s.recordAudit(ctx, actorUserID, audit.ActionCreate, created.ID, map[string]any{
		"idInterno": created.IDInterno,
		"medio":     string(created.Medio),
	})
	if s.metrics != nil {
		s.metrics.ConsentsCreated.Inc()
	}
	return created, nil
}

// Update patches a grant and appends an UPDATE audit event.
func (s *Service) Update(ctx context.Context, id string, patch func(*consent.Record), actorUserID string) (consent.Record, error) {
	updated, err := s.ledger.Update(ctx, id, func(r *consent.Record) {
		patch(r)
		r.LastUpdatedBy = actorUserID
	})
	if err != nil {
		return consent.Record{}, err
	}
	s.recordAudit(ctx, actorUserID, audit.ActionUpdate, id, nil)
	return updated, nil
}

// Revoke applies the terminal transition and appends a REVOKE audit event.
func (s *Service) Revoke(ctx context.Context, id, actorUserID string) (consent.Record, error) {
	revoked, err := s.ledger.Revoke(ctx, id, actorUserID)
	if err != nil {
		return consent.Record{}, err
	}
	s.recordAudit(ctx, actorUserID, audit.ActionRevoke, id, map[string]any{
		"revokedAt": revoked.Timestamps.RevokedAt,
	})
	if s.metrics != nil {
		s.metrics.ConsentsRevoked.Inc()
	}
	return revoked, nil
}

func (s *Service) recordAudit(ctx context.Context, actor string, action audit.Action, resourceID string, payload map[string]any) {
	_, err := s.trail.Append(ctx, audit.Event{
		ActorUserID:  actor,
		Action:       action,
		ResourceType: audit.ResourceConsent,
		ResourceID:   resourceID,
		Payload:      payload,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit append failed", "action", action, "resource_id", resourceID, "error", err)
	}
}

// enrichFromUserAgent derives browser and channel tags from the raw
// Navegador string so downstream filters don't need to parse user agents.
func enrichFromUserAgent(r *consent.Record) {
	if r.Navegador == "" {
		return
	}
	if r.Meta == nil {
		r.Meta = make(map[string]string)
	}
	ua := useragent.New(r.Navegador)
	if name, _ := ua.Browser(); name != "" {
		r.Meta["browser"] = name
	}
	if _, ok := r.Meta["channel"]; !ok && r.Medio == consent.MedioElectronic {
		if ua.Mobile() {
			r.Meta["channel"] = "MOBILE"
		} else {
			r.Meta["channel"] = "WEB"
		}
	}
}
