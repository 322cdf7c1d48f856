package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spieletreff/wachhund/cmd/panel/config"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	dbMonitoring "github.com/spieletreff/wachhund/pkg/dataaccess/monitoring"
)

func (a *App) healthCheck() Controller {
	checks := []health.CheckerOption{
		// Set a TTL of 1 second for the results of the checks.
		health.WithCacheDuration(1 * time.Second),

		// Set a timeout of 2 seconds for the checks.
		health.WithTimeout(2 * time.Second),

		// Accounts and documents always live in MongoDB.
		health.WithCheck(health.Check{
			Name: "MongoDB",
			Check: func(ctx context.Context) error {
				// Measure the latency of the check.
				t := prometheus.NewTimer(dbMonitoring.MongoLatency.WithLabelValues("health_check", "ping", "-", "-"))
				defer t.ObserveDuration()
				dbMonitoring.MongoTotalRequests.WithLabelValues("health_check", "ping", "-", "-").Inc()

				if err := dataaccess.MongoDB.Ping(ctx, nil); err != nil {
					return fmt.Errorf("failed to ping MongoDB: %w", err)
				}
				return nil
			},
			Timeout: 2 * time.Second,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.Info("MongoDB health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
		}),

		// Absences, invites, settings and the role cache are file backed.
		health.WithCheck(health.Check{
			Name: "Data_Directory",
			Check: func(ctx context.Context) error {
				probe := filepath.Join(config.DataDir, ".health")
				if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
					return fmt.Errorf("data directory is not writable: %w", err)
				}
				return os.Remove(probe)
			},
			Timeout: 2 * time.Second,
			StatusListener: func(ctx context.Context, name string, state health.CheckState) {
				a.Info("Data directory health check status changed",
					slog.String("name", name),
					slog.String("state", string(state.Status)),
				)
			},
		}),
	}

	return Controller(health.NewHandler(health.NewChecker(checks...)))
}
