package graph_test

import (
	"errors"
	"testing"

	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

func TestQuery_Placeholders(t *testing.T) {
	q := graph.NewQuery("MERGE (p :`Person` {id: $personId})\nSET p.name = $name\nSET p.alias = $name")
	assert.Equal(t, []string{"personId", "name"}, q.Placeholders())
}

func TestQuery_Bind(t *testing.T) {
	tests := []struct {
		name    string
		query   graph.Query
		want    map[string]any
		wantErr error
	}{
		{
			name:  "all placeholders bound",
			query: graph.NewQuery("MATCH (n {number: $number}) RETURN n LIMIT $limit", graph.P("number", "+1"), graph.P("limit", int64(5))),
			want:  map[string]any{"number": "+1", "limit": int64(5)},
		},
		{
			name:  "extra parameters are passed through",
			query: graph.NewQuery("RETURN $a", graph.P("a", 1), graph.P("b", 2)),
			want:  map[string]any{"a": 1, "b": 2},
		},
		{
			name:  "repeated identical parameter",
			query: graph.NewQuery("RETURN $a", graph.P("a", []string{"Japan"}), graph.P("a", []string{"Japan"})),
			want:  map[string]any{"a": []string{"Japan"}},
		},
		{
			name:    "missing placeholder",
			query:   graph.NewQuery("MATCH (p {id: $personId}) SET p.name = $name", graph.P("personId", "p1")),
			wantErr: graph.ErrUnboundParameter,
		},
		{
			name:    "conflicting values for one key",
			query:   graph.NewQuery("RETURN $a", graph.P("a", 1), graph.P("a", 2)),
			wantErr: graph.ErrConflictingParameter,
		},
		{
			name:  "no placeholders",
			query: graph.NewQuery("MATCH (n) RETURN count(n) AS n"),
			want:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Bind()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuery_BindNamesMissingPlaceholder(t *testing.T) {
	err := graph.NewQuery("RETURN $weekday").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$weekday")
}

func TestQuery_Param(t *testing.T) {
	q := graph.NewQuery("RETURN $a", graph.P("a", 1))

	v, ok := q.Param("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = q.Param("missing")
	assert.False(t, ok)
}

func TestParameter_Equality(t *testing.T) {
	a := graph.P("countries", []string{"Japan", "UK"})
	b := graph.P("countries", []string{"Japan", "UK"})
	c := graph.P("countries", []string{"UK"})
	d := graph.P("regions", []string{"Japan", "UK"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	set := map[string]graph.Parameter{a.Fingerprint(): a}
	_, dup := set[b.Fingerprint()]
	assert.True(t, dup)

	assert.Equal(t, "Parameter(weekday=2)", graph.P("weekday", 2).String())
}

func TestFromBuilder(t *testing.T) {
	q, err := graph.FromBuilder(gocypher.NewQueryBuilder().
		Match(gocypher.N("p", "Person").WithProperties(map[string]interface{}{"id": "p1"})).
		Return("p"))
	require.NoError(t, err)

	assert.Contains(t, q.Statement, "MATCH")
	assert.Contains(t, q.Statement, "Person")
	assert.NotEmpty(t, q.Params)
	assert.NoError(t, q.Validate())

	for i := 1; i < len(q.Params); i++ {
		assert.Less(t, q.Params[i-1].Key, q.Params[i].Key, "parameters are sorted by key")
	}
}
