package patterns

import (
	"context"
	"fmt"
	"time"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

const (
	windowCount = 8
	windowStep  = 30 * 24 * time.Hour
)

var (
	flightsPerDestination = []string{
		"MATCH (person :`Person`)-[:TOOK]->(flight :`Flight`)-[:TO]-(:`City`)-[:IN]->(country :`Country`)",
		"WHERE flight.timestamp >= $startDate AND flight.timestamp < $endDate",
		"WITH person.name AS person, COUNT(flight) AS n, country.name AS destination",
		"WHERE n > $count",
		"RETURN person, n, destination",
	}

	frequentFlyersStatement = statement(append(flightsPerDestination,
		"ORDER BY n DESC",
		"LIMIT $limit",
	)...)

	monthlyFrequentFlyersStatement = statement(flightsPerDestination...)

	flyerColumns = []Column{
		{Name: "Person", Kind: Text},
		{Name: "No. Flights", Kind: Number},
		{Name: "Destination", Kind: Text},
	}
)

// FrequentFlyers finds the people that took more than MinFlights flights to the same
// country within [Start, End).
type FrequentFlyers struct {
	Start      time.Time
	End        time.Time
	MinFlights int64
	Limit      int64
}

func DefaultFrequentFlyers() FrequentFlyers {
	return FrequentFlyers{
		Start:      date(2014, time.January, 1),
		End:        date(2014, time.June, 30),
		MinFlights: 1,
		Limit:      20,
	}
}

func (FrequentFlyers) ID() string { return "1" }

func (FrequentFlyers) Description() string {
	return "Find the top 20 people that took more than 1 flight between ~Jan - Jun 2014, to any destination. " +
		"Results are ordered by number of flights to each country"
}

func (p FrequentFlyers) Query() graph.Query {
	return graph.NewQuery(frequentFlyersStatement,
		graph.P("startDate", p.Start.Unix()),
		graph.P("endDate", p.End.Unix()),
		graph.P("count", p.MinFlights),
		graph.P("limit", p.Limit),
	)
}

func (p FrequentFlyers) Run(ctx context.Context, store graph.Store, opts ...graph.Option) ([]Table, error) {
	records, err := query(ctx, store, p.Query(), opts)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
	}
	return []Table{table(windowTitle(p.Start, p.End), flyerColumns, records)}, nil
}

// Window is a half-open [Start, End) interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthlyFrequentFlyers runs the FrequentFlyers aggregation over eight consecutive windows,
// each 30 days before the next, the last one being [Start, End). All windows execute in
// one batch and succeed or fail together.
type MonthlyFrequentFlyers struct {
	Start      time.Time
	End        time.Time
	MinFlights int64
}

func DefaultMonthlyFrequentFlyers() MonthlyFrequentFlyers {
	return MonthlyFrequentFlyers{
		Start:      date(2014, time.August, 1),
		End:        date(2014, time.August, 31),
		MinFlights: 1,
	}
}

func (MonthlyFrequentFlyers) ID() string { return "2" }

func (MonthlyFrequentFlyers) Description() string {
	return "Find people that took more than 1 flight to any country each month, between ~Jan - Aug 2014"
}

// Windows returns the windows in chronological order.
func (p MonthlyFrequentFlyers) Windows() []Window {
	windows := make([]Window, 0, windowCount)
	for i := windowCount - 1; i >= 0; i-- {
		shift := time.Duration(i) * windowStep
		windows = append(windows, Window{Start: p.Start.Add(-shift), End: p.End.Add(-shift)})
	}
	return windows
}

// Queries returns one query per window, in the order of Windows.
func (p MonthlyFrequentFlyers) Queries() []graph.Query {
	windows := p.Windows()
	queries := make([]graph.Query, len(windows))
	for i, w := range windows {
		queries[i] = graph.NewQuery(monthlyFrequentFlyersStatement,
			graph.P("startDate", w.Start.Unix()),
			graph.P("endDate", w.End.Unix()),
			graph.P("count", p.MinFlights),
		)
	}
	return queries
}

func (p MonthlyFrequentFlyers) Run(ctx context.Context, store graph.Store, opts ...graph.Option) ([]Table, error) {
	batch, err := graph.BeginBatch(ctx, store, readOnly(opts)...)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
	}
	for _, q := range p.Queries() {
		if err := batch.Append(q); err != nil {
			_ = batch.Rollback(ctx)
			return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
		}
	}
	results, err := batch.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
	}
	if err := batch.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
	}

	tables := make([]Table, len(results))
	for i, w := range p.Windows() {
		tables[i] = table(windowTitle(w.Start, w.End), flyerColumns, results[i])
	}
	return tables, nil
}

func windowTitle(start, end time.Time) string {
	return fmt.Sprintf("Between %s and %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
}
