// Package graph is the transactional execution layer between the forensics domain and Neo4j.
// It pairs Cypher templates with named parameters, runs them inside explicit transactions and
// batches, and maps results back into plain records and subgraphs.
package graph

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// placeholderPattern matches a named Cypher parameter such as `$personId`.
var placeholderPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// Parameter is a single named value bound to a placeholder of a Query.
type Parameter struct {
	Key   string
	Value any
}

// P is shorthand for constructing a Parameter.
func P(key string, value any) Parameter {
	return Parameter{Key: key, Value: value}
}

// Equal reports whether both parameters share the same key and a deeply equal value.
func (p Parameter) Equal(other Parameter) bool {
	return p.Key == other.Key && reflect.DeepEqual(p.Value, other.Value)
}

// Fingerprint returns a comparable identity for the (key, value) pair, suitable as a map key.
func (p Parameter) Fingerprint() string {
	return fmt.Sprintf("%s=%#v", p.Key, p.Value)
}

func (p Parameter) String() string {
	return fmt.Sprintf("Parameter(%s=%v)", p.Key, p.Value)
}

// Query is a Cypher statement template together with the parameters bound to its placeholders.
// Placeholders are always named (`$key`); values are never interpolated into the statement text.
type Query struct {
	Statement string
	Params    []Parameter
}

// NewQuery pairs a statement template with its parameters.
func NewQuery(statement string, params ...Parameter) Query {
	return Query{Statement: statement, Params: params}
}

// Placeholders returns the distinct placeholder names referenced by the statement,
// in order of first appearance.
func (q Query) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(q.Statement, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Param returns the value bound to key.
func (q Query) Param(key string) (any, bool) {
	for _, p := range q.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Bind resolves the parameters into the map handed to the driver.
//
// Returns:
//
//	The parameter map, or an error wrapping ErrUnboundParameter when a placeholder has no
//	parameter, or ErrConflictingParameter when a key is bound twice to different values.
func (q Query) Bind() (map[string]any, error) {
	bound := make(map[string]any, len(q.Params))
	index := make(map[string]Parameter, len(q.Params))
	for _, p := range q.Params {
		if prev, ok := index[p.Key]; ok {
			if !prev.Equal(p) {
				return nil, fmt.Errorf("%w: %s bound to %v and %v", ErrConflictingParameter, p.Key, prev.Value, p.Value)
			}
			continue
		}
		index[p.Key] = p
		bound[p.Key] = p.Value
	}

	for _, name := range q.Placeholders() {
		if _, ok := bound[name]; !ok {
			return nil, fmt.Errorf("%w: $%s", ErrUnboundParameter, name)
		}
	}
	return bound, nil
}

// Validate checks that every placeholder is bound, without building the parameter map.
func (q Query) Validate() error {
	_, err := q.Bind()
	return err
}

// FromBuilder converts a gocypher query builder into a Query. The generated parameters are
// ordered by key so the result is deterministic.
func FromBuilder(qb *gocypher.QueryBuilder) (Query, error) {
	statement, params, err := qb.Build()
	if err != nil {
		return Query{}, fmt.Errorf("could not build query: %w", err)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := Query{Statement: statement, Params: make([]Parameter, 0, len(keys))}
	for _, k := range keys {
		q.Params = append(q.Params, P(k, params[k]))
	}
	return q, nil
}
