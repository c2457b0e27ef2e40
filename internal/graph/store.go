package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// TxConfig describes how a store transaction handle should be opened.
type TxConfig struct {
	// Timeout is passed through to the store. Zero uses the server default.
	Timeout time.Duration
	// ReadOnly opens the handle in read access mode.
	ReadOnly bool
}

// Store is a transactional graph endpoint. Each call to Begin yields an independent
// handle that must not be shared between concurrent transactions.
type Store interface {
	Begin(ctx context.Context, cfg TxConfig) (StoreTx, error)
}

// StoreTx is a single open transaction against the store.
type StoreTx interface {
	// Run executes one statement and returns every record it produced.
	Run(ctx context.Context, statement string, params map[string]any) ([]*neo4j.Record, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Close releases the handle. It is safe to call after Commit or Rollback.
	Close(ctx context.Context) error
}

// Neo4jStore is the Store implementation backed by the official Neo4j Go driver.
// It owns the driver and the target database name; construct it once and pass it
// to every transaction.
type Neo4jStore struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jStore creates the driver for the given address and credentials.
//
// Parameters:
//   - uri: The connection URI for the Neo4j instance (e.g., "neo4j://localhost:7687").
//   - username: The username for authentication.
//   - password: The password for authentication.
//   - dbName: The name of the database to use (e.g., "neo4j").
//
// Returns:
//
//	A pointer to the newly created Neo4jStore or an error if the driver creation fails.
func NewNeo4jStore(uri, username, password, dbName string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Neo4jStore{Driver: driver, DBName: dbName}, nil
}

// Verify checks the connectivity to the Neo4j server.
func (s *Neo4jStore) Verify(ctx context.Context) error {
	return s.Driver.VerifyConnectivity(ctx)
}

// Close shuts the driver down and releases all pooled connections.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.Driver.Close(ctx)
}

// Begin opens a session and an explicit transaction on it. The returned handle owns both.
func (s *Neo4jStore) Begin(ctx context.Context, cfg TxConfig) (StoreTx, error) {
	mode := neo4j.AccessModeWrite
	if cfg.ReadOnly {
		mode = neo4j.AccessModeRead
	}
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: s.DBName,
		AccessMode:   mode,
	})

	var configurers []func(*neo4j.TransactionConfig)
	if cfg.Timeout > 0 {
		configurers = append(configurers, neo4j.WithTxTimeout(cfg.Timeout))
	}

	tx, err := session.BeginTransaction(ctx, configurers...)
	if err != nil {
		_ = session.Close(ctx)
		return nil, fmt.Errorf("error beginning neo4j transaction: %w", err)
	}
	return &neo4jTx{session: session, tx: tx}, nil
}

type neo4jTx struct {
	session neo4j.SessionWithContext
	tx      neo4j.ExplicitTransaction
}

func (t *neo4jTx) Run(ctx context.Context, statement string, params map[string]any) ([]*neo4j.Record, error) {
	result, err := t.tx.Run(ctx, statement, params)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	// Buffer everything so the caller can zip result sets to statements.
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("error collecting neo4j records: %w", err)
	}
	return records, nil
}

func (t *neo4jTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *neo4jTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *neo4jTx) Close(ctx context.Context) error {
	txErr := t.tx.Close(ctx)
	if err := t.session.Close(ctx); err != nil {
		return err
	}
	return txErr
}
