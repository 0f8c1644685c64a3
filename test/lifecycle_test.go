package test

import (
	"context"
	"testing"
	"time"

	"rdc30/internal/alert"
	"rdc30/internal/audit"
	"rdc30/internal/consent"
	"rdc30/internal/consent/service"
	"rdc30/internal/job"
	"rdc30/internal/report"
	"rdc30/internal/terms"
	"rdc30/internal/widget"
	"rdc30/pkg/rdc"
	"rdc30/pkg/testutil"
)

// Exercises a full grant lifecycle across the catalogs, the ledger, the audit
// trail, the alert engine and the report builder: publish terms, bind a
// widget, capture a grant that is already inside the expiry warning window,
// then revoke it and watch every derived surface move.
func TestConsentLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	termsStore := terms.NewInMemoryStore(terms.WithClock(clock))
	widgetStore := widget.NewInMemoryStore(termsStore, widget.WithClock(clock))
	ledger := consent.NewInMemoryStore(consent.WithClock(clock))
	trail := audit.NewInMemoryStore(audit.WithClock(clock))
	jobs := job.NewInMemoryStore(job.WithClock(clock))
	alerts := alert.NewInMemoryStore(alert.WithClock(clock))

	svc := service.New(ledger, trail)
	engine := alert.NewEngine(ledger, jobs, alerts)
	builder := report.NewBuilder(ledger, report.WithClock(clock))

	var (
		activeWidget widget.Widget
		grant        consent.Record
	)

	testutil.Given(t, "a product with published terms and an active widget", func(t *testing.T) {
		tc, err := termsStore.Create(ctx, terms.Version{
			ProductID: "cuenta-corriente",
			Version:   "1.0",
			Title:     "Términos y Condiciones cuenta-corriente v1.0",
			Content:   "autorización de tratamiento de datos personales.",
			CreatedBy: "1",
		})
		if err != nil {
			t.Fatalf("create terms: %v", err)
		}
		if _, err := termsStore.Publish(ctx, tc.ID); err != nil {
			t.Fatalf("publish terms: %v", err)
		}

		activeWidget, err = widgetStore.Create(ctx, widget.Widget{
			ProductID:         "cuenta-corriente",
			Name:              "Widget cuenta-corriente",
			ActiveTcVersionID: tc.ID,
			IsActive:          true,
		})
		if err != nil {
			t.Fatalf("create widget: %v", err)
		}
	})

	testutil.When(t, "a grant expiring in ten days is captured", func(t *testing.T) {
		exp := now.Add(10 * 24 * time.Hour)
		var err error
		grant, err = svc.Create(ctx, consent.Record{
			Person:      consent.Person{Rut: "12345678-9", Name: "Camila Rojas", Email: "camila@correo.cl"},
			Medio:       consent.MedioElectronic,
			WidgetID:    activeWidget.ID,
			TcVersionID: activeWidget.ActiveTcVersionID,
			Timestamps: consent.RDC30Timestamps{
				OtorgamientoFecha: rdc.FormatDate(now),
				OtorgamientoHora:  rdc.FormatTime(now),
				FinFecha:          rdc.FormatDate(exp),
				FinHora:           rdc.FormatTime(exp),
			},
		}, "1")
		if err != nil {
			t.Fatalf("create consent: %v", err)
		}

		testutil.Then(t, "the grant lands inside the expiry warning window", func(t *testing.T) {
			if grant.State != consent.StateExpiringSoon {
				t.Fatalf("expected state %s, got %s", consent.StateExpiringSoon, grant.State)
			}
		})

		testutil.Then(t, "the alert engine flags it on the next scan", func(t *testing.T) {
			created, err := engine.Scan(ctx)
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			if len(created) != 1 {
				t.Fatalf("expected 1 alert, got %d", len(created))
			}
			if created[0].Type != alert.TypeExpiringSoon || created[0].ResourceID != grant.ID {
				t.Fatalf("unexpected alert %+v", created[0])
			}
		})
	})

	testutil.When(t, "the grant is revoked", func(t *testing.T) {
		revoked, err := svc.Revoke(ctx, grant.ID, "2")
		if err != nil {
			t.Fatalf("revoke: %v", err)
		}

		testutil.Then(t, "the revocation is terminal and attributed", func(t *testing.T) {
			if revoked.State != consent.StateRevoked {
				t.Fatalf("expected state %s, got %s", consent.StateRevoked, revoked.State)
			}
			if revoked.Timestamps.RevokedAt == nil || !revoked.Timestamps.RevokedAt.Equal(now) {
				t.Fatalf("expected RevokedAt %v, got %v", now, revoked.Timestamps.RevokedAt)
			}
			if revoked.LastUpdatedBy != "2" {
				t.Fatalf("expected LastUpdatedBy 2, got %q", revoked.LastUpdatedBy)
			}
		})

		testutil.Then(t, "the ledger stats move to the revoked bucket", func(t *testing.T) {
			stats, err := ledger.GetStats(ctx)
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if stats.Total != 1 || stats.Revoked != 1 || stats.ExpiringSoon != 0 {
				t.Fatalf("unexpected stats %+v", stats)
			}
		})

		testutil.Then(t, "the audit trail holds the full history", func(t *testing.T) {
			events, err := trail.GetByResource(ctx, audit.ResourceConsent, grant.ID)
			if err != nil {
				t.Fatalf("audit: %v", err)
			}
			if len(events) != 2 {
				t.Fatalf("expected 2 events, got %d", len(events))
			}
			if events[0].Action != audit.ActionCreate || events[1].Action != audit.ActionRevoke {
				t.Fatalf("unexpected actions %s, %s", events[0].Action, events[1].Action)
			}
		})

		testutil.Then(t, "a generated report reflects the revocation", func(t *testing.T) {
			r, err := builder.Generate(ctx, report.Params{}, "1")
			if err != nil {
				t.Fatalf("generate report: %v", err)
			}
			last := r.Rows[len(r.Rows)-1]
			if last.Metric != "Tasa de Revocación" || last.Value != "100.00%" {
				t.Fatalf("unexpected row %+v", last)
			}
		})
	})
}
