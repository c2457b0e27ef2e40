//go:build integration

package graphtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

// StartNeo4j starts a Neo4j 5 container with authentication disabled and returns a store
// connected to it. The container is terminated when the test finishes. The test is skipped
// when Docker is unavailable.
func StartNeo4j(t *testing.T, ctx context.Context) *graph.Neo4jStore {
	t.Helper()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping integration test")
	}
	if err := provider.Health(ctx); err != nil {
		t.Skip("Docker not running, skipping integration test")
	}

	req := testcontainers.ContainerRequest{
		Image:        "neo4j:5",
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": "none",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("7687/tcp"),
			wait.ForLog("Started."),
		).WithDeadline(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start Neo4j container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "7687")
	require.NoError(t, err)

	store, err := graph.NewNeo4jStore(fmt.Sprintf("bolt://%s:%s", host, port.Port()), "neo4j", "ignored", "neo4j")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	require.NoError(t, store.Verify(ctx))

	return store
}

// Scalar runs a read-only query returning a single integer column named "n".
func Scalar(t *testing.T, ctx context.Context, store graph.Store, statement string, params ...graph.Parameter) int64 {
	t.Helper()

	var n int64
	err := graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
		records, err := tx.Execute(ctx, graph.NewQuery(statement, params...))
		if err != nil {
			return err
		}
		require.Len(t, records, 1)
		value, ok := records[0].Get("n")
		require.True(t, ok)
		n = value.(int64)
		return nil
	}, graph.ReadOnly())
	require.NoError(t, err)
	return n
}
