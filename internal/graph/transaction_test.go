package graph_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph/graphtest"
)

func TestTransaction_ExecuteReturnsRecords(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewFakeStore()
	store.SetHandler(func(statement string, params map[string]any) ([]*neo4j.Record, error) {
		return []*neo4j.Record{
			graphtest.Record([]string{"person", "n"}, "Ada", int64(2)),
			graphtest.Record([]string{"person", "n"}, "Bob", int64(1)),
		}, nil
	})

	tx, err := graph.Begin(ctx, store, graph.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	records, err := tx.Execute(ctx, graph.NewQuery("MATCH (p) WHERE p.id = $id RETURN p.name AS person, 2 AS n", graph.P("id", "p1")))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []any{"Ada", int64(2)}, records[0].Values)

	require.NoError(t, tx.Commit(ctx))

	txs := store.Transactions()
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Committed())
	assert.True(t, txs[0].Closed())
	assert.Equal(t, map[string]any{"id": "p1"}, txs[0].Calls()[0].Params)
}

func TestTransaction_EmptyResultIsNotFailure(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewFakeStore()

	tx, err := graph.Begin(ctx, store)
	require.NoError(t, err)

	records, err := tx.Execute(ctx, graph.NewQuery("MATCH (n) RETURN n"))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	require.NoError(t, tx.Commit(ctx))
}

func TestTransaction_FailureRollsBackAndPropagates(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewFakeStore()
	store.FailWhen(func(string, map[string]any) bool { return true })

	tx, err := graph.Begin(ctx, store)
	require.NoError(t, err)

	_, err = tx.Execute(ctx, graph.NewQuery("CREATE (n)"))
	require.Error(t, err)

	var failure *graph.TransactionFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "execute", failure.Op)
	assert.Equal(t, 1, failure.Statements)
	assert.ErrorIs(t, err, graphtest.ErrInjected)

	fake := store.Transactions()[0]
	assert.True(t, fake.RolledBack())
	assert.False(t, fake.Committed())
	assert.True(t, tx.Closed())

	_, err = tx.Execute(ctx, graph.NewQuery("CREATE (n)"))
	assert.ErrorIs(t, err, graph.ErrTransactionClosed)
	assert.ErrorIs(t, tx.Commit(ctx), graph.ErrTransactionClosed)
}

func TestTransaction_UnboundParameterNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewFakeStore()

	tx, err := graph.Begin(ctx, store)
	require.NoError(t, err)

	_, err = tx.Execute(ctx, graph.NewQuery("MATCH (p {id: $personId}) RETURN p"))
	require.ErrorIs(t, err, graph.ErrUnboundParameter)

	assert.Empty(t, store.Transactions()[0].Calls())
	assert.False(t, tx.Closed())
	require.NoError(t, tx.Rollback(ctx))
}

func TestTransaction_Options(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewFakeStore()

	tx, err := graph.Begin(ctx, store, graph.ReadOnly(), graph.WithTimeout(30*time.Second))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	cfg := store.Transactions()[0].Config
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestTransaction_BeginFailure(t *testing.T) {
	store := graphtest.NewFakeStore()
	store.SetBeginError(errors.New("connection refused"))

	_, err := graph.Begin(context.Background(), store)

	var failure *graph.TransactionFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "begin", failure.Op)
}

func TestTransaction_CommitFailure(t *testing.T) {
	ctx := context.Background()
	store := graphtest.NewFakeStore()

	tx, err := graph.Begin(ctx, store)
	require.NoError(t, err)
	_, err = tx.Execute(ctx, graph.NewQuery("CREATE (n)"))
	require.NoError(t, err)

	store.Transactions()[0].FailCommit(errors.New("deadlock"))
	err = tx.Commit(ctx)

	var failure *graph.TransactionFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "commit", failure.Op)
	assert.Equal(t, 1, failure.Statements)
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		store := graphtest.NewFakeStore()
		err := graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
			_, err := tx.Execute(ctx, graph.NewQuery("CREATE (n)"))
			return err
		})
		require.NoError(t, err)
		assert.True(t, store.Transactions()[0].Committed())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		store := graphtest.NewFakeStore()
		boom := errors.New("caller gave up")
		err := graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
			if _, err := tx.Execute(ctx, graph.NewQuery("CREATE (n)")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		fake := store.Transactions()[0]
		assert.True(t, fake.RolledBack())
		assert.False(t, fake.Committed())
	})

	t.Run("propagates store failure without double rollback", func(t *testing.T) {
		store := graphtest.NewFakeStore()
		store.FailWhen(func(string, map[string]any) bool { return true })
		err := graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
			_, err := tx.Execute(ctx, graph.NewQuery("CREATE (n)"))
			return err
		})
		assert.ErrorIs(t, err, graphtest.ErrInjected)
		assert.True(t, store.Transactions()[0].RolledBack())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		store := graphtest.NewFakeStore()
		assert.Panics(t, func() {
			_ = graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
				panic("boom")
			})
		})
		assert.True(t, store.Transactions()[0].RolledBack())
	})
}

func TestTransaction_Spans(t *testing.T) {
	ctx := context.Background()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	store := graphtest.NewFakeStore()
	store.FailWhen(func(statement string, _ map[string]any) bool { return statement == "FAIL" })

	tx, err := graph.Begin(ctx, store, graph.WithTracerProvider(tp))
	require.NoError(t, err)
	_, err = tx.Execute(ctx, graph.NewQuery("RETURN 1"))
	require.NoError(t, err)
	_, err = tx.Execute(ctx, graph.NewQuery("FAIL"))
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "graph.Transaction.Execute", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
