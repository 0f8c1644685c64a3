package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"rdc30/internal/consent"
	"rdc30/internal/job"
)

// ConsentFeed is the slice of the consent ledger the engine scans.
type ConsentFeed interface {
	List(ctx context.Context, filter consent.Filter) ([]consent.Record, error)
}

// JobFeed is the slice of the job tracker the engine scans.
type JobFeed interface {
	List(ctx context.Context, filter job.Filter) ([]job.Job, error)
}

// Engine derives alerts by scanning its feeds. It is a batch derivation, not
// a live trigger: conditions are observed at scan time and instantiated as
// OPEN alerts unless the same resource already has an open alert of the same
// type.
type Engine struct {
	consents ConsentFeed
	jobs     JobFeed
	alerts   *InMemoryStore
	logger   *slog.Logger
}

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

func NewEngine(consents ConsentFeed, jobs JobFeed, alerts *InMemoryStore, opts ...EngineOption) *Engine {
	e := &Engine{consents: consents, jobs: jobs, alerts: alerts}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scan reads both feeds, derives notable conditions, and records them as
// alerts. The two feeds are independent reads, so they run concurrently;
// results are recorded consents-first to keep the output order stable.
// Returns the alerts created by this scan.
func (e *Engine) Scan(ctx context.Context) ([]Alert, error) {
	var (
		consentRecords []consent.Record
		erroredJobs    []job.Job
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := e.consents.List(gctx, consent.Filter{
			States: []consent.State{consent.StateExpiringSoon, consent.StateExpired},
		})
		if err != nil {
			return fmt.Errorf("scan consents: %w", err)
		}
		consentRecords = records
		return nil
	})
	g.Go(func() error {
		jobs, err := e.jobs.List(gctx, job.Filter{Status: job.StatusError})
		if err != nil {
			return fmt.Errorf("scan jobs: %w", err)
		}
		erroredJobs = jobs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var created []Alert
	for _, r := range consentRecords {
		alertType := TypeExpiringSoon
		message := fmt.Sprintf("consentimiento %s está por vencer", r.IDInterno)
		if r.State == consent.StateExpired {
			alertType = TypeExpired
			message = fmt.Sprintf("consentimiento %s ha vencido", r.IDInterno)
		}
		if a, ok := e.record(ctx, alertType, "CONSENT", r.ID, message); ok {
			created = append(created, a)
		}
	}
	for _, j := range erroredJobs {
		message := fmt.Sprintf("error en trabajo %s (%s): %s", j.ID, j.Type, j.ErrorMessage)
		if a, ok := e.record(ctx, TypeJobError, "JOB", j.ID, message); ok {
			created = append(created, a)
		}
	}

	if e.logger != nil {
		e.logger.Debug("alert scan complete",
			"consents_flagged", len(consentRecords),
			"jobs_errored", len(erroredJobs),
			"alerts_created", len(created),
		)
	}
	return created, nil
}

// RecordUnusualRevoke ingests the externally supplied anomalous-revoke-rate
// signal as an alert.
func (e *Engine) RecordUnusualRevoke(ctx context.Context, count int, window time.Duration) (Alert, error) {
	return e.alerts.Create(ctx, Alert{
		Type:    TypeUnusualRevoke,
		Message: fmt.Sprintf("pico inusual de revocaciones: %d en las últimas %s", count, window),
	})
}

// record creates an alert unless an open one already covers the same
// condition for the same resource.
func (e *Engine) record(ctx context.Context, alertType Type, resourceType, resourceID, message string) (Alert, bool) {
	existing, err := e.alerts.List(ctx, Filter{
		Type:         alertType,
		State:        StateOpen,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	})
	if err == nil && len(existing) > 0 {
		return Alert{}, false
	}
	a, err := e.alerts.Create(ctx, Alert{
		Type:         alertType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Message:      message,
	})
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("alert create failed", "type", alertType, "resource_id", resourceID, "error", err)
		}
		return Alert{}, false
	}
	return a, true
}
