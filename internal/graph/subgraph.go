package graph

// GraphNode is a domain-agnostic node: its element id, labels and properties.
type GraphNode struct {
	// ID is the element id assigned by Neo4j.
	ID string `json:"id"`

	// Labels contains every label attached to the node (e.g. ["Person"]).
	Labels []string `json:"labels"`

	// Properties holds the node's key-value properties.
	Properties map[string]interface{} `json:"properties"`
}

// Edge is a domain-agnostic relationship between two nodes, referenced by element id.
type Edge struct {
	ID string `json:"id"`

	// Source is the element id of the node where the relationship starts.
	Source string `json:"source"`

	// Target is the element id of the node where the relationship ends.
	Target string `json:"target"`

	// Type is the relationship type (e.g. "TOOK", "CONTACTED").
	Type string `json:"type"`

	Properties map[string]interface{} `json:"properties"`
}

// GraphResult is a de-duplicated set of nodes and edges, ready for JSON serialisation.
type GraphResult struct {
	Nodes []*GraphNode `json:"nodes"`
	Edges []*Edge      `json:"edges"`
}
