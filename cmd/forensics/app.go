package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/logging"
)

// app holds what a command needs once the configuration is loaded.
type app struct {
	configPath string

	cfg      *config.Config
	logger   *zap.Logger
	store    *graph.Neo4jStore
	registry *prometheus.Registry
	metrics  *graph.Metrics
	tracer   *sdktrace.TracerProvider
}

// open loads the configuration, builds the logger, metrics and tracing, and connects to the
// store. Configuration errors are returned before the store is contacted.
func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Logging)

	a.registry = prometheus.NewRegistry()
	a.metrics = graph.NewMetrics(a.registry)

	if cfg.Tracing.Enabled {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(os.Stderr), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("create trace exporter: %w", err)
		}
		a.tracer = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
	}

	store, err := graph.NewNeo4jStore(cfg.Neo4j.Address(), cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Endpoint)
	if err != nil {
		return fmt.Errorf("could not create driver: %w", err)
	}
	a.store = store
	if err := store.Verify(ctx); err != nil {
		return fmt.Errorf("could not connect to database '%s': %w", cfg.Neo4j.Endpoint, err)
	}
	a.logger.Debug("Connected to Neo4j",
		zap.String("address", cfg.Neo4j.Address()),
		zap.String("database", cfg.Neo4j.Endpoint))
	return nil
}

// close pushes the collected metrics when a gateway is configured, flushes spans and
// releases the driver.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.cfg != nil && a.cfg.Metrics.Pushgateway != "" {
		err := push.New(a.cfg.Metrics.Pushgateway, a.cfg.Metrics.Job).Gatherer(a.registry).PushContext(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("push metrics: %w", err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush traces: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close driver: %w", err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return errors.Join(errs...)
}

// options returns the transaction options for one unit of work with the given timeout.
func (a *app) options(timeout time.Duration) []graph.Option {
	opts := []graph.Option{
		graph.WithLogger(a.logger),
		graph.WithMetrics(a.metrics),
		graph.WithTimeout(timeout),
	}
	if a.tracer != nil {
		opts = append(opts, graph.WithTracerProvider(a.tracer))
	}
	return opts
}
