package seed

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/entities"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

// ResetBatchSize bounds the number of nodes deleted per reset transaction.
const ResetBatchSize = 10000

const resetStatement = "MATCH (n)\nWITH n LIMIT $limit\nDETACH DELETE n\nRETURN count(*) AS deleted"

var indexes = []string{
	"CREATE INDEX person_name IF NOT EXISTS FOR (n :`Person`) ON (n.name)",
	"CREATE INDEX person_sex IF NOT EXISTS FOR (n :`Person`) ON (n.sex)",
}

// Schema returns the statements creating a uniqueness constraint per natural key and the
// secondary indexes used by the patterns. Every statement is idempotent.
func Schema(store graph.Store) ([]graph.Query, error) {
	constraints := []func(graph.Store) (graph.Query, error){
		constraint[entities.PersonNode],
		constraint[entities.PhoneNumberNode],
		constraint[entities.CompanyNode],
		constraint[entities.CountryNode],
		constraint[entities.CityNode],
		constraint[entities.FlightNode],
	}

	queries := make([]graph.Query, 0, len(constraints)+len(indexes))
	for _, c := range constraints {
		q, err := c(store)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	for _, stmt := range indexes {
		queries = append(queries, graph.NewQuery(stmt))
	}
	return queries, nil
}

func constraint[T any](store graph.Store) (graph.Query, error) {
	repo, err := graph.NewRepository[T](store)
	if err != nil {
		return graph.Query{}, fmt.Errorf("invalid node model: %w", err)
	}
	return repo.Constraint(), nil
}

// EnsureSchema creates the constraints and indexes, each in its own transaction since
// schema and data changes cannot share one.
func EnsureSchema(ctx context.Context, store graph.Store, opts ...graph.Option) error {
	queries, err := Schema(store)
	if err != nil {
		return err
	}
	for _, q := range queries {
		err := graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
			_, err := tx.Execute(ctx, q)
			return err
		}, opts...)
		if err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}

// Reset deletes every node and relationship, at most ResetBatchSize nodes per committed
// transaction, and returns the number of nodes deleted.
func Reset(ctx context.Context, store graph.Store, opts ...graph.Option) (int64, error) {
	q := graph.NewQuery(resetStatement, graph.P("limit", int64(ResetBatchSize)))

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		var deleted int64
		err := graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
			records, err := tx.Execute(ctx, q)
			if err != nil || len(records) == 0 {
				return err
			}
			deleted, _, err = neo4j.GetRecordValue[int64](records[0], "deleted")
			return err
		}, opts...)
		if err != nil {
			return total, fmt.Errorf("reset: %w", err)
		}
		total += deleted
		if deleted == 0 {
			return total, nil
		}
	}
}
