package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// BatchTransaction accumulates statements and executes them together inside one store
// transaction. Result sets come back in append order so callers can zip them to statements.
type BatchTransaction struct {
	h       *handle
	pending []Query
}

// BeginBatch opens a BatchTransaction on store.
func BeginBatch(ctx context.Context, store Store, opts ...Option) (*BatchTransaction, error) {
	h, err := open(ctx, store, opts)
	if err != nil {
		return nil, err
	}
	return &BatchTransaction{h: h}, nil
}

// Append queues q for the next Execute. A statement with an unbound placeholder is
// rejected here, before anything is sent to the store.
func (b *BatchTransaction) Append(q Query) error {
	if b.h.closed {
		return ErrTransactionClosed
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("append statement %d: %w", len(b.pending), err)
	}
	b.pending = append(b.pending, q)
	return nil
}

// Len returns the number of statements waiting for Execute.
func (b *BatchTransaction) Len() int {
	return len(b.pending)
}

// Execute runs every pending statement and returns one result set per statement, in append order.
// The pending queue is emptied on success. If any statement fails the whole transaction is
// rolled back and a *TransactionFailure is returned.
func (b *BatchTransaction) Execute(ctx context.Context) ([][]*neo4j.Record, error) {
	results, err := b.h.run(ctx, "graph.BatchTransaction.Execute", b.pending)
	b.pending = nil
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Commit makes every executed statement durable and releases the handle.
// Statements appended but not executed are discarded.
func (b *BatchTransaction) Commit(ctx context.Context) error {
	b.pending = nil
	return b.h.commit(ctx)
}

// Rollback discards every executed statement and releases the handle.
func (b *BatchTransaction) Rollback(ctx context.Context) error {
	b.pending = nil
	return b.h.rollback(ctx)
}

// Closed reports whether the batch has been committed or rolled back.
func (b *BatchTransaction) Closed() bool {
	return b.h.closed
}
