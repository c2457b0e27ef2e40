package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/patterns"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		kind patterns.Kind
		in   any
		want string
	}{
		{patterns.Text, "Kiran Trope", "Kiran Trope"},
		{patterns.Number, int64(17), "17"},
		{patterns.Number, 2.5, "2.5"},
		{patterns.Epoch, int64(1372636800), "2013-07-01"},
		{patterns.Epoch, float64(1412035200), "2014-09-30"},
		{patterns.Epoch, int64(-1), Present},
		{patterns.Epoch, "n/a", "n/a"},
		{patterns.Text, nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.kind, tt.in), "%v", tt.in)
	}
}

func TestRender_NoRows(t *testing.T) {
	out := Render(patterns.Table{Title: "Between 2014-01-01 and 2014-06-30"})
	assert.Contains(t, out, "Between 2014-01-01 and 2014-06-30")
	assert.Contains(t, out, NoMatches)
}

func TestRender_Rows(t *testing.T) {
	out := Render(patterns.Table{
		Title: "Callers employed at WT Enterprises",
		Columns: []patterns.Column{
			{Name: "Name", Kind: patterns.Text},
			{Name: "Since", Kind: patterns.Epoch},
			{Name: "Until", Kind: patterns.Epoch},
		},
		Rows: [][]any{
			{"Kiran Trope", int64(1372636800), int64(1412035200)},
			{"Adi Segan", int64(1372636800), int64(-1)},
		},
	})

	assert.NotContains(t, out, NoMatches)
	for _, s := range []string{"Name", "Since", "Kiran Trope", "2013-07-01", "2014-09-30", Present} {
		assert.Contains(t, out, s)
	}
	assert.Less(t, strings.Index(out, "Kiran Trope"), strings.Index(out, "Adi Segan"), "row order is kept")
}

type stubPattern struct{}

func (stubPattern) ID() string          { return "9" }
func (stubPattern) Description() string { return "stub" }
func (stubPattern) Run(context.Context, graph.Store, ...graph.Option) ([]patterns.Table, error) {
	return nil, nil
}

func TestWriter_Pattern(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf).Pattern(stubPattern{}, []patterns.Table{{Title: "empty"}}, 1500*time.Microsecond)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "9 => stub")
	assert.Contains(t, out, NoMatches)
	assert.Contains(t, out, "Took 1.50ms")
}
