// Package seed prepares a forensics graph: it resets the database, creates the schema,
// generates synthetic investigation data and writes it in bounded chunks.
package seed

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/entities"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

// Step reports the outcome of seeding one kind of entity.
type Step struct {
	Kind  string
	Stats graph.ChunkStats
}

// Seeder writes datasets to a store.
type Seeder struct {
	store     graph.Store
	chunkSize int
	logger    *zap.Logger
	opts      []graph.Option
}

// NewSeeder returns a seeder committing at most chunkSize statements per transaction.
// opts apply to every transaction it opens.
func NewSeeder(store graph.Store, chunkSize int, logger *zap.Logger, opts ...graph.Option) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize <= 0 {
		chunkSize = graph.DefaultChunkSize
	}
	return &Seeder{
		store:     store,
		chunkSize: chunkSize,
		logger:    logger,
		opts:      append([]graph.Option{graph.WithLogger(logger)}, opts...),
	}
}

// Seed writes people, calls, flights and employment, in that order. Each kind is streamed
// through graph.ExecuteChunked; on failure the steps completed so far are returned along
// with the partial stats of the failing one.
func (s *Seeder) Seed(ctx context.Context, ds *Dataset) ([]Step, error) {
	kinds := []struct {
		name    string
		count   int
		queries iter.Seq[graph.Query]
	}{
		{"people", len(ds.People), entities.Mutations(ds.People)},
		{"calls", len(ds.Calls), entities.Mutations(ds.Calls)},
		{"flights", len(ds.Flights), entities.Mutations(ds.Flights)},
		{"employment", len(ds.Employment), entities.Mutations(ds.Employment)},
	}

	steps := make([]Step, 0, len(kinds))
	for _, k := range kinds {
		s.logger.Info("Seeding", zap.String("kind", k.name), zap.Int("count", k.count), zap.Int("chunk_size", s.chunkSize))
		stats, err := graph.ExecuteChunked(ctx, s.store, k.queries, s.chunkSize, s.opts...)
		steps = append(steps, Step{Kind: k.name, Stats: stats})
		if err != nil {
			return steps, fmt.Errorf("seeding %s: %w", k.name, err)
		}
	}
	return steps, nil
}

// Run generates a dataset and replaces the database content with it.
func (s *Seeder) Run(ctx context.Context, gen *Generator, counts Counts) ([]Step, error) {
	ds, err := gen.Generate(counts)
	if err != nil {
		return nil, fmt.Errorf("generating dataset: %w", err)
	}
	s.logger.Info("Generated data",
		zap.Int("people", len(ds.People)),
		zap.Int("calls", len(ds.Calls)),
		zap.Int("flights", len(ds.Flights)),
		zap.Int("employment", len(ds.Employment)),
	)
	return s.Replace(ctx, ds)
}

// Replace empties the database, creates the schema and seeds ds.
func (s *Seeder) Replace(ctx context.Context, ds *Dataset) ([]Step, error) {
	s.logger.Info("Emptying database")
	deleted, err := Reset(ctx, s.store, s.opts...)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Database emptied", zap.Int64("deleted", deleted))

	s.logger.Info("Creating constraints and indexes")
	if err := EnsureSchema(ctx, s.store, s.opts...); err != nil {
		return nil, err
	}
	return s.Seed(ctx, ds)
}
