package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/entities"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph/graphtest"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/seed"
)

func TestSchema(t *testing.T) {
	queries, err := seed.Schema(graphtest.NewFakeStore())
	require.NoError(t, err)
	require.Len(t, queries, 8)

	assert.Equal(t, "CREATE CONSTRAINT person_id IF NOT EXISTS FOR (n :`Person`) REQUIRE n.`id` IS UNIQUE", queries[0].Statement)
	assert.Contains(t, queries[5].Statement, "FOR (n :`Flight`) REQUIRE n.`number` IS UNIQUE")
	assert.Contains(t, queries[6].Statement, "CREATE INDEX person_name IF NOT EXISTS")
}

func TestEnsureSchema_OneTransactionPerStatement(t *testing.T) {
	store := graphtest.NewFakeStore()
	require.NoError(t, seed.EnsureSchema(context.Background(), store))

	txs := store.Transactions()
	require.Len(t, txs, 8)
	for _, tx := range txs {
		assert.Len(t, tx.Calls(), 1)
		assert.True(t, tx.Committed())
	}
}

func TestReset_LoopsUntilEmpty(t *testing.T) {
	remaining := []int64{seed.ResetBatchSize, 4, 0}
	store := graphtest.NewFakeStore()
	store.SetHandler(func(_ string, params map[string]any) ([]*neo4j.Record, error) {
		n := remaining[0]
		remaining = remaining[1:]
		return []*neo4j.Record{graphtest.Record([]string{"deleted"}, n)}, nil
	})

	deleted, err := seed.Reset(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, int64(seed.ResetBatchSize+4), deleted)

	txs := store.Transactions()
	require.Len(t, txs, 3)
	for _, tx := range txs {
		assert.True(t, tx.Committed())
		assert.Equal(t, int64(seed.ResetBatchSize), tx.Calls()[0].Params["limit"])
	}
}

func TestReset_Failure(t *testing.T) {
	store := graphtest.NewFakeStore()
	store.FailWhen(func(string, map[string]any) bool { return true })

	_, err := seed.Reset(context.Background(), store)
	var failure *graph.TransactionFailure
	assert.ErrorAs(t, err, &failure)
}

func TestSeeder_SeedsKindsInOrderInChunks(t *testing.T) {
	ds, err := seed.NewGenerator(1).Generate(seed.Counts{People: 5, Calls: 7, Flights: 3, Employment: 2})
	require.NoError(t, err)

	store := graphtest.NewFakeStore()
	steps, err := seed.NewSeeder(store, 4, zaptest.NewLogger(t)).Seed(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, steps, 4)
	assert.Equal(t, "people", steps[0].Kind)
	assert.Equal(t, graph.ChunkStats{Chunks: 2, Statements: len(ds.People)}, steps[0].Stats)
	assert.Equal(t, "employment", steps[3].Kind)

	committed := store.Committed()
	require.Len(t, committed, ds.Len())
	assert.Contains(t, committed[0].Statement, "MERGE (p :`Person` {id: $personId})")
	assert.Contains(t, committed[len(ds.People)].Statement, "CREATE (n1)-[r :CONTACTED]->(n2)")
	assert.Contains(t, committed[len(committed)-1].Statement, "EMPLOYEE_AT")
}

func TestSeeder_FailureStopsLaterKinds(t *testing.T) {
	ds := &seed.Dataset{
		People: []entities.Person{{ID: "p1", Name: "a", Sex: "F", Number: "+1"}},
		Calls: []entities.PhoneCall{
			{Source: "+1", Target: "+2"},
		},
		Employment: []entities.Employment{{Person: "p1", Company: "c"}},
	}
	store := graphtest.NewFakeStore()
	store.FailWhen(func(statement string, _ map[string]any) bool {
		return strings.Contains(statement, "CONTACTED")
	})

	steps, err := seed.NewSeeder(store, 10, nil).Seed(context.Background(), ds)
	assert.ErrorContains(t, err, "seeding calls: chunk 1")
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Stats.Statements)
	assert.Zero(t, steps[1].Stats.Chunks)

	for _, call := range store.Committed() {
		assert.NotContains(t, call.Statement, "EMPLOYEE_AT")
	}
}

func TestSeeder_Replace(t *testing.T) {
	store := graphtest.NewFakeStore()
	ds := &seed.Dataset{People: []entities.Person{{ID: "p1", Name: "a", Sex: "F", Number: "+1"}}}

	_, err := seed.NewSeeder(store, 0, nil).Replace(context.Background(), ds)
	require.NoError(t, err)

	committed := store.Committed()
	require.Len(t, committed, 1+8+1, "reset, schema, then data")
	assert.Contains(t, committed[0].Statement, "DETACH DELETE n")
	assert.Contains(t, committed[1].Statement, "CREATE CONSTRAINT")
	assert.Contains(t, committed[9].Statement, "MERGE (p :`Person`")
}
