// Package graphtest provides an in-memory graph.Store for unit tests and a Neo4j
// testcontainer helper for integration tests.
package graphtest

import (
	"context"
	"errors"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

// ErrInjected is the default failure returned by FailWhen handlers.
var ErrInjected = errors.New("injected store failure")

// Call is one statement received by a FakeTx.
type Call struct {
	Statement string
	Params    map[string]any
}

// Handler produces the records for a statement, or an error to simulate a store failure.
type Handler func(statement string, params map[string]any) ([]*neo4j.Record, error)

// FakeStore is a graph.Store that records every handle it opens.
// It is safe for concurrent use.
type FakeStore struct {
	mu       sync.Mutex
	handler  Handler
	beginErr error
	txs      []*FakeTx
}

// NewFakeStore returns a store whose statements all succeed with no records.
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// SetHandler installs h to answer every statement.
func (s *FakeStore) SetHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

// SetBeginError makes Begin fail with err.
func (s *FakeStore) SetBeginError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginErr = err
}

// FailWhen makes every statement for which match returns true fail with ErrInjected.
func (s *FakeStore) FailWhen(match func(statement string, params map[string]any) bool) {
	s.SetHandler(func(statement string, params map[string]any) ([]*neo4j.Record, error) {
		if match(statement, params) {
			return nil, ErrInjected
		}
		return nil, nil
	})
}

// Begin implements graph.Store.
func (s *FakeStore) Begin(_ context.Context, cfg graph.TxConfig) (graph.StoreTx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	tx := &FakeTx{store: s, Config: cfg}
	s.txs = append(s.txs, tx)
	return tx, nil
}

// Transactions returns every handle opened so far, in order.
func (s *FakeStore) Transactions() []*FakeTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*FakeTx(nil), s.txs...)
}

// Committed returns the statements of committed handles, in execution order.
func (s *FakeStore) Committed() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var calls []Call
	for _, tx := range s.txs {
		if tx.committed {
			calls = append(calls, tx.calls...)
		}
	}
	return calls
}

// FakeTx is one handle opened on a FakeStore.
type FakeTx struct {
	store  *FakeStore
	Config graph.TxConfig

	calls      []Call
	committed  bool
	rolledBack bool
	closed     bool
	commitErr  error
}

// FailCommit makes the next Commit fail with err.
func (t *FakeTx) FailCommit(err error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.commitErr = err
}

// Run implements graph.StoreTx.
func (t *FakeTx) Run(_ context.Context, statement string, params map[string]any) ([]*neo4j.Record, error) {
	t.store.mu.Lock()
	t.calls = append(t.calls, Call{Statement: statement, Params: params})
	h := t.store.handler
	t.store.mu.Unlock()

	if h == nil {
		return nil, nil
	}
	return h(statement, params)
}

// Commit implements graph.StoreTx.
func (t *FakeTx) Commit(context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

// Rollback implements graph.StoreTx.
func (t *FakeTx) Rollback(context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.rolledBack = true
	return nil
}

// Close implements graph.StoreTx.
func (t *FakeTx) Close(context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.closed = true
	return nil
}

// Calls returns the statements run on this handle.
func (t *FakeTx) Calls() []Call {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Committed reports whether the handle was committed.
func (t *FakeTx) Committed() bool {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.committed
}

// RolledBack reports whether the handle was rolled back.
func (t *FakeTx) RolledBack() bool {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.rolledBack
}

// Closed reports whether the handle was released.
func (t *FakeTx) Closed() bool {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.closed
}

// Record builds a driver record from column names and values.
func Record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}
