package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// handle owns exactly one store transaction and tracks whether it is still usable.
// Transaction and BatchTransaction are thin front-ends over it.
type handle struct {
	opts       *options
	tx         StoreTx
	closed     bool
	statements int
}

func open(ctx context.Context, store Store, opts []Option) (*handle, error) {
	o := newOptions(opts)
	tx, err := store.Begin(ctx, o.txConfig)
	if err != nil {
		o.metrics.observeTransaction("begin_failed")
		return nil, &TransactionFailure{Op: "begin", Err: err}
	}
	return &handle{opts: o, tx: tx}, nil
}

// run binds every query up front, so an unbound placeholder never reaches the store,
// then executes them in order. Any store error rolls the whole handle back.
func (h *handle) run(ctx context.Context, spanName string, queries []Query) ([][]*neo4j.Record, error) {
	if h.closed {
		return nil, ErrTransactionClosed
	}

	bound := make([]map[string]any, len(queries))
	for i, q := range queries {
		params, err := q.Bind()
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		bound[i] = params
	}

	ctx, span := h.opts.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.Int("graph.statements", len(queries)),
		attribute.Bool("graph.read_only", h.opts.txConfig.ReadOnly),
	))
	defer span.End()

	start := time.Now()
	results := make([][]*neo4j.Record, 0, len(queries))
	var runErr error
	for i, q := range queries {
		records, err := h.tx.Run(ctx, q.Statement, bound[i])
		if err != nil {
			runErr = fmt.Errorf("statement %d: %w", i, err)
			break
		}
		if records == nil {
			records = []*neo4j.Record{}
		}
		results = append(results, records)
	}
	took := time.Since(start)
	h.opts.metrics.observeExecute(len(queries), took, runErr)

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "execution failed")
		h.opts.logger.Warn("graph execution failed, rolling back",
			zap.Int("statements", len(queries)), zap.Duration("took", took), zap.Error(runErr))
		h.abort(ctx)
		return nil, &TransactionFailure{Op: "execute", Statements: len(queries), Err: runErr}
	}

	h.statements += len(queries)
	h.opts.logger.Debug("graph statements executed",
		zap.Int("statements", len(queries)), zap.Duration("took", took))
	return results, nil
}

func (h *handle) commit(ctx context.Context) error {
	if h.closed {
		return ErrTransactionClosed
	}
	h.closed = true
	err := h.tx.Commit(ctx)
	h.release(ctx)
	if err != nil {
		h.opts.metrics.observeTransaction("commit_failed")
		return &TransactionFailure{Op: "commit", Statements: h.statements, Err: err}
	}
	h.opts.metrics.observeTransaction("commit")
	return nil
}

func (h *handle) rollback(ctx context.Context) error {
	if h.closed {
		return ErrTransactionClosed
	}
	h.closed = true
	err := h.tx.Rollback(ctx)
	h.release(ctx)
	h.opts.metrics.observeTransaction("rollback")
	if err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// abort rolls back after a failed execution. The caller's context may already be
// cancelled or past its deadline, so the rollback runs detached from it.
func (h *handle) abort(ctx context.Context) {
	if err := h.rollback(context.WithoutCancel(ctx)); err != nil {
		h.opts.logger.Error("rollback after failed execution", zap.Error(err))
	}
}

func (h *handle) release(ctx context.Context) {
	if err := h.tx.Close(ctx); err != nil {
		h.opts.logger.Debug("closing store transaction", zap.Error(err))
	}
}

// Transaction executes statements one at a time inside a single store transaction.
// A failed Execute rolls the transaction back and closes it.
type Transaction struct {
	h *handle
}

// Begin opens a Transaction on store.
//
// Parameters:
//   - ctx: The context used to acquire the store handle.
//   - store: The store to open the transaction on.
//   - opts: Timeout, access mode, logging, metrics and tracing options.
//
// Returns:
//
//	The open Transaction, or a *TransactionFailure if the store refused to begin one.
func Begin(ctx context.Context, store Store, opts ...Option) (*Transaction, error) {
	h, err := open(ctx, store, opts)
	if err != nil {
		return nil, err
	}
	return &Transaction{h: h}, nil
}

// Execute runs q and returns its records. An empty, non-nil slice means the query matched nothing.
// On a store error the transaction is rolled back and a *TransactionFailure is returned.
func (t *Transaction) Execute(ctx context.Context, q Query) ([]*neo4j.Record, error) {
	results, err := t.h.run(ctx, "graph.Transaction.Execute", []Query{q})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// Commit makes the executed statements durable and releases the handle.
func (t *Transaction) Commit(ctx context.Context) error {
	return t.h.commit(ctx)
}

// Rollback discards the executed statements and releases the handle.
func (t *Transaction) Rollback(ctx context.Context) error {
	return t.h.rollback(ctx)
}

// Closed reports whether the transaction has been committed or rolled back.
func (t *Transaction) Closed() bool {
	return t.h.closed
}

// WithTransaction runs fn inside a Transaction. The transaction commits when fn returns nil
// and rolls back when fn returns an error or panics; the error from fn is returned unchanged.
func WithTransaction(ctx context.Context, store Store, fn func(tx *Transaction) error, opts ...Option) (err error) {
	tx, err := Begin(ctx, store, opts...)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if !tx.Closed() {
				_ = tx.Rollback(context.WithoutCancel(ctx))
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if !tx.Closed() {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				tx.h.opts.logger.Error("rollback", zap.Error(rbErr))
			}
		}
		return err
	}
	return tx.Commit(ctx)
}
