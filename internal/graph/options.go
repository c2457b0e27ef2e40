package graph

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"

// Option customises a Transaction or BatchTransaction.
type Option func(*options)

type options struct {
	txConfig TxConfig
	logger   *zap.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: zap.NewNop(),
		tracer: otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTimeout sets the execution timeout handed to the store.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.txConfig.Timeout = d }
}

// ReadOnly opens the underlying handle in read access mode.
func ReadOnly() Option {
	return func(o *options) { o.txConfig.ReadOnly = true }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records statement and transaction outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider selects the provider used for execution spans instead of the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}
