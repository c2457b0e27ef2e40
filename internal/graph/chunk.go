package graph

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// DefaultChunkSize bounds the number of statements committed per batch when seeding.
const DefaultChunkSize = 5000

// ChunkStats summarises a chunked execution.
type ChunkStats struct {
	// Chunks is the number of chunks committed.
	Chunks int
	// Statements is the number of statements in committed chunks.
	Statements int
}

// ExecuteChunked streams queries into consecutive BatchTransactions of at most size statements.
// Each chunk is executed and committed before the next one begins, so a failure rolls back
// only the chunk in flight; earlier chunks stay committed and are reported in the stats.
func ExecuteChunked(ctx context.Context, store Store, queries iter.Seq[Query], size int, opts ...Option) (ChunkStats, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	logger := newOptions(opts).logger

	var stats ChunkStats
	chunk := make([]Query, 0, size)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}
		if err := commitChunk(ctx, store, chunk, opts); err != nil {
			return fmt.Errorf("chunk %d: %w", stats.Chunks+1, err)
		}
		stats.Chunks++
		stats.Statements += len(chunk)
		logger.Debug("chunk committed", zap.Int("chunk", stats.Chunks), zap.Int("statements", len(chunk)))
		chunk = chunk[:0]
		return nil
	}

	for q := range queries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		chunk = append(chunk, q)
		if len(chunk) == size {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

func commitChunk(ctx context.Context, store Store, chunk []Query, opts []Option) error {
	batch, err := BeginBatch(ctx, store, opts...)
	if err != nil {
		return err
	}
	for _, q := range chunk {
		if err := batch.Append(q); err != nil {
			_ = batch.Rollback(ctx)
			return err
		}
	}
	if _, err := batch.Execute(ctx); err != nil {
		return err
	}
	return batch.Commit(ctx)
}
