package report

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"rdc30/internal/consent"
	"rdc30/internal/platform/metrics"
	"rdc30/pkg/platform/sentinel"
)

// Ledger is the consent query surface the builder aggregates over.
type Ledger interface {
	List(ctx context.Context, filter consent.Filter) ([]consent.Record, error)
}

// Builder generates and stores regulatory report snapshots. The store side
// is folded into the builder: reports are write-once, so the only operations
// are Generate, List and GetByID.
type Builder struct {
	mu      sync.RWMutex
	ledger  Ledger
	reports []Report
	metrics *metrics.Metrics
	nowFn   func() time.Time
}

type Option func(*Builder)

// WithClock injects a clock, mainly for tests.
func WithClock(nowFn func() time.Time) Option {
	return func(b *Builder) { b.nowFn = nowFn }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

func NewBuilder(ledger Ledger, opts ...Option) *Builder {
	b := &Builder{ledger: ledger, nowFn: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Generate queries the ledger with the param window, aggregates the filtered
// subset, and freezes the result. Stats are computed over exactly the
// records the window selects, so two reports with different windows disagree
// even when generated at the same instant.
func (b *Builder) Generate(ctx context.Context, params Params, userID string) (Report, error) {
	records, err := b.ledger.List(ctx, consent.Filter{
		FromDate:  params.From,
		ToDate:    params.To,
		ProductID: params.ProductID,
	})
	if err != nil {
		return Report{}, fmt.Errorf("query ledger for report: %w", err)
	}

	now := b.nowFn()
	stats := consent.StatsOf(records, now)

	r := Report{
		ID:          uuid.NewString(),
		Type:        TypeRDC30,
		Params:      params,
		Rows:        buildRows(stats),
		GeneratedAt: now,
		GeneratedBy: userID,
	}

	b.mu.Lock()
	b.reports = append(b.reports, r)
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.ReportsGenerated.Inc()
	}
	return r, nil
}

// buildRows freezes the aggregate into the fixed RDC30 metric rows.
func buildRows(stats consent.Stats) []Row {
	rate := "0.00%"
	if stats.Total > 0 {
		rate = fmt.Sprintf("%.2f%%", float64(stats.Revoked)/float64(stats.Total)*100)
	}
	return []Row{
		{Metric: "Total Consentimientos", Value: fmt.Sprintf("%d", stats.Total)},
		{Metric: "Consentimientos Activos", Value: fmt.Sprintf("%d", stats.Active)},
		{Metric: "Consentimientos por Vencer", Value: fmt.Sprintf("%d", stats.ExpiringSoon)},
		{Metric: "Consentimientos Vencidos", Value: fmt.Sprintf("%d", stats.Expired)},
		{Metric: "Consentimientos Revocados", Value: fmt.Sprintf("%d", stats.Revoked)},
		{Metric: "Tasa de Revocación", Value: rate},
	}
}

// List returns reports matching the filter, newest first.
func (b *Builder) List(_ context.Context, filter Filter) ([]Report, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	results := make([]Report, 0, len(b.reports))
	for _, r := range b.reports {
		if filter.Type != "" && r.Type != filter.Type {
			continue
		}
		if filter.GeneratedBy != "" && r.GeneratedBy != filter.GeneratedBy {
			continue
		}
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].GeneratedAt.After(results[j].GeneratedAt)
	})
	return results, nil
}

func (b *Builder) GetByID(_ context.Context, id string) (Report, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, r := range b.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return Report{}, sentinel.ErrNotFound
}

// Reset discards all records.
func (b *Builder) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reports = nil
}
