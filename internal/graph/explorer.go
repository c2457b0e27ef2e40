package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// Explorer turns graph-shaped query results into a GraphResult.
type Explorer struct {
	store Store
	opts  []Option
}

// NewExplorer creates an Explorer whose queries run in read-only transactions on store.
func NewExplorer(store Store, opts ...Option) *Explorer {
	return &Explorer{store: store, opts: append(append([]Option{}, opts...), ReadOnly())}
}

// FindGraph executes each builder in one read-only transaction and merges the nodes and
// relationships they return into a single GraphResult.
//
// The builders decide the shape of the graph; each must RETURN the nodes and
// relationships to include (e.g. `RETURN p, r, f`). Other values in the rows are ignored.
// Elements returned more than once, by one builder or several, appear once.
//
// Parameters:
//   - ctx: The context for the query execution.
//   - builders: The queries describing the subgraph.
//
// Returns:
//   - The de-duplicated nodes and edges.
//   - ErrNotFound if every query succeeds but none returns a row.
//   - Any other error encountered during query building or execution.
func (e *Explorer) FindGraph(ctx context.Context, builders ...*gocypher.QueryBuilder) (*GraphResult, error) {
	queries := make([]Query, 0, len(builders))
	for _, qb := range builders {
		q, err := FromBuilder(qb)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}

	batch, err := BeginBatch(ctx, e.store, e.opts...)
	if err != nil {
		return nil, err
	}
	for _, q := range queries {
		if err := batch.Append(q); err != nil {
			_ = batch.Rollback(ctx)
			return nil, err
		}
	}
	resultSets, err := batch.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if err := batch.Commit(ctx); err != nil {
		return nil, err
	}

	graph := &GraphResult{
		Nodes: make([]*GraphNode, 0),
		Edges: make([]*Edge, 0),
	}
	seenNodeIDs := make(map[string]bool)
	seenEdgeIDs := make(map[string]bool)
	rows := 0

	for _, records := range resultSets {
		rows += len(records)
		for _, record := range records {
			for _, value := range record.Values {
				switch v := value.(type) {
				case neo4j.Node:
					if !seenNodeIDs[v.ElementId] {
						graph.Nodes = append(graph.Nodes, &GraphNode{
							ID:         v.ElementId,
							Labels:     v.Labels,
							Properties: v.Props,
						})
						seenNodeIDs[v.ElementId] = true
					}
				case neo4j.Relationship:
					if !seenEdgeIDs[v.ElementId] {
						graph.Edges = append(graph.Edges, &Edge{
							ID:         v.ElementId,
							Source:     v.StartElementId,
							Target:     v.EndElementId,
							Type:       v.Type,
							Properties: v.Props,
						})
						seenEdgeIDs[v.ElementId] = true
					}
				}
			}
		}
	}

	if rows == 0 {
		return nil, ErrNotFound
	}
	return graph, nil
}
