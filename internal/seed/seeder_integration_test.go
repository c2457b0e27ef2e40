//go:build integration

package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph/graphtest"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/patterns"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/seed"
)

func TestSeeder_AgainstNeo4j(t *testing.T) {
	ctx := context.Background()
	store := graphtest.StartNeo4j(t, ctx)
	ds, err := seed.NewGenerator(99).Generate(seed.Counts{People: 30, Calls: 60, Flights: 40, Employment: 20})
	require.NoError(t, err)

	snapshot := func() [2]int64 {
		return [2]int64{
			graphtest.Scalar(t, ctx, store, "MATCH (n) RETURN count(n) AS n"),
			graphtest.Scalar(t, ctx, store, "MATCH ()-[r]->() RETURN count(r) AS n"),
		}
	}

	_, err = seed.NewSeeder(store, 1, zaptest.NewLogger(t)).Replace(ctx, ds)
	require.NoError(t, err)
	one := snapshot()

	_, err = seed.NewSeeder(store, 5000, zaptest.NewLogger(t)).Replace(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, one, snapshot(), "chunk size does not change the graph")

	assert.Equal(t, int64(len(ds.Calls)), graphtest.Scalar(t, ctx, store, "MATCH ()-[r:CONTACTED]->() RETURN count(r) AS n"))
	assert.Equal(t, int64(len(ds.Employment)), graphtest.Scalar(t, ctx, store, "MATCH ()-[r:EMPLOYEE_AT]->() RETURN count(r) AS n"))

	tables, err := patterns.DefaultRepresentativeCallers().Run(ctx, store)
	require.NoError(t, err)
	require.NotEmpty(t, tables[0].Rows)
	assert.Equal(t, seed.Seller.Name, tables[0].Rows[0][0], "the seller calls most")
	assert.GreaterOrEqual(t, tables[0].Rows[0][1], int64(17))

	tables, err = patterns.DefaultCallersEmployedAt().Run(ctx, store)
	require.NoError(t, err)
	var names []any
	for _, row := range tables[0].Rows {
		names = append(names, row[0])
	}
	assert.Contains(t, names, seed.Seller.Name)
}
