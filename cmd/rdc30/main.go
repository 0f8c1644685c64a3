package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rdc30/internal/alert"
	"rdc30/internal/audit"
	"rdc30/internal/consent"
	"rdc30/internal/consumer"
	"rdc30/internal/identity"
	"rdc30/internal/job"
	"rdc30/internal/platform/config"
	"rdc30/internal/platform/httpserver"
	"rdc30/internal/platform/logger"
	"rdc30/internal/platform/metrics"
	"rdc30/internal/report"
	"rdc30/internal/seed"
	"rdc30/internal/terms"
	"rdc30/internal/widget"
)

// main wires the stores, seeds them deterministically, runs one alert scan,
// and exposes engine metrics. Business logic lives in the internal packages;
// this shell only demonstrates the library wiring.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if path := os.Getenv("RDC30_CONFIG"); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			logger.New(false).Error("load config file", "error", err)
			os.Exit(1)
		}
	}
	log := logger.New(cfg.Debug)
	m := metrics.New()

	users := identity.NewInMemoryStore()
	catalog := terms.NewInMemoryStore()
	widgets := widget.NewInMemoryStore(catalog)
	ledger := consent.NewInMemoryStore()
	trail := audit.NewInMemoryStore()
	jobs := job.NewInMemoryStore()
	alerts := alert.NewInMemoryStore()
	builder := report.NewBuilder(ledger, report.WithMetrics(m))

	ctx := context.Background()
	start := time.Now()
	seeder := seed.New(cfg.Seed, start, cfg.CodigoInstitucion)
	if err := seeder.All(ctx, seed.Stores{
		Users:    users,
		Terms:    catalog,
		Widgets:  widgets,
		Consents: ledger,
		Audit:    trail,
		Jobs:     jobs,
		Alerts:   alerts,
		Reports:  builder,
	}, seed.Counts{}); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	m.ObserveSeed(start)

	stats, err := ledger.GetStats(ctx)
	if err != nil {
		log.Error("stats failed", "error", err)
		os.Exit(1)
	}
	openAlerts, _ := alerts.GetOpenCount(ctx)
	m.OpenAlerts.Set(float64(openAlerts))

	profiles, err := consumer.NewView(ledger).List(ctx)
	if err != nil {
		log.Error("profile view failed", "error", err)
		os.Exit(1)
	}

	log.Info("consent engine seeded",
		"seed", cfg.Seed,
		"total", stats.Total,
		"active", stats.Active,
		"expiring_soon", stats.ExpiringSoon,
		"expired", stats.Expired,
		"revoked", stats.Revoked,
		"persons", len(profiles),
		"open_alerts", openAlerts,
	)

	reports, err := builder.List(ctx, report.Filter{})
	if err != nil || len(reports) == 0 {
		log.Error("no seeded report", "error", err)
		os.Exit(1)
	}
	for _, row := range reports[0].Rows {
		log.Info("rdc30 report row", "metric", row.Metric, "value", row.Value)
	}

	srv := httpserver.New(cfg.MetricsAddr, promhttp.Handler())
	go func() {
		log.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
