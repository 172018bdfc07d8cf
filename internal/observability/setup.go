package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/musicislife08/TelegramGroupsAdmin-sub007/internal/infra"
)

var (
	// Logger mirrors the operator-facing logrus output as structured JSON,
	// for log pipelines that ingest the runner.
	Logger *zap.Logger

	migrationsAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schema_migrations_applied_total",
			Help: "Total number of schema migrations executed",
		},
		[]string{"direction"},
	)

	migrationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "schema_migration_batch_duration_seconds",
			Help:    "Time spent executing a migration batch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction"},
	)
)

// Init sets up the structured logger, the tracer provider and the metrics
// endpoint. Call once at process start.
func Init(ctx context.Context, metricsAddr string) error {
	var err error
	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	prometheus.MustRegister(migrationsAppliedTotal)
	prometheus.MustRegister(migrationDuration)

	tp := trace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	go infra.GoRecoverable(0, "metrics_server", func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			log.WithError(err).Error("metrics server failed")
		}
	})

	return nil
}

// RecordMigrations counts executed migrations by direction ("up" or "down").
func RecordMigrations(direction string, n int) {
	migrationsAppliedTotal.WithLabelValues(direction).Add(float64(n))
}

// StartMigrationBatch returns a function to record the batch duration.
func StartMigrationBatch(direction string) func() {
	timer := prometheus.NewTimer(migrationDuration.WithLabelValues(direction))
	return func() {
		timer.ObserveDuration()
	}
}
