// Package patterns implements the fixed, read-only analytical traversals run against the
// forensics graph. Every pattern binds its parameters instead of interpolating them and
// executes through read-only transactions.
package patterns

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

// ErrUnknownPattern is returned by Select for a selector that names no pattern.
var ErrUnknownPattern = errors.New("unknown pattern")

// All selects every pattern of the catalog, in order.
const All = "*"

// Kind tells a renderer how to format a column.
type Kind int

const (
	Text Kind = iota
	Number
	// Epoch columns hold epoch seconds, or -1 for an open interval.
	Epoch
)

type Column struct {
	Name string
	Kind Kind
}

// Table is the result of one pattern query: Rows hold the record values in column order.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]any
}

// Pattern is one analytical traversal of the catalog.
type Pattern interface {
	ID() string
	Description() string
	// Run executes the pattern and returns one table per query it issues.
	Run(ctx context.Context, store graph.Store, opts ...graph.Option) ([]Table, error)
}

// Catalog returns every pattern with its default parameters, ordered by id.
func Catalog() []Pattern {
	return []Pattern{
		DefaultFrequentFlyers(),
		DefaultMonthlyFrequentFlyers(),
		DefaultRepresentativeCallers(),
		DefaultCallersWhoFlew(),
		DefaultCallersEmployedAt(),
	}
}

// Select returns the patterns named by selector: a pattern id, or All.
func Select(selector string) ([]Pattern, error) {
	catalog := Catalog()
	if selector == All {
		return catalog, nil
	}
	for _, p := range catalog {
		if p.ID() == selector {
			return []Pattern{p}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, selector)
}

// Describe writes the catalog, one pattern per line.
func Describe(w io.Writer) error {
	for _, p := range Catalog() {
		if _, err := fmt.Fprintf(w, "%s => %s\n", p.ID(), p.Description()); err != nil {
			return err
		}
	}
	return nil
}

// date returns midnight UTC of the given day.
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// query runs q in its own read-only transaction.
func query(ctx context.Context, store graph.Store, q graph.Query, opts []graph.Option) ([]*neo4j.Record, error) {
	var records []*neo4j.Record
	err := graph.WithTransaction(ctx, store, func(tx *graph.Transaction) error {
		var err error
		records, err = tx.Execute(ctx, q)
		return err
	}, readOnly(opts)...)
	return records, err
}

func readOnly(opts []graph.Option) []graph.Option {
	return append(append([]graph.Option(nil), opts...), graph.ReadOnly())
}

func table(title string, columns []Column, records []*neo4j.Record) Table {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Values)
	}
	return Table{Title: title, Columns: columns, Rows: rows}
}
