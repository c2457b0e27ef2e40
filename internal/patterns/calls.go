package patterns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

// RepresentativeNumber is the phone number of Enterprise XYZ's representative.
const RepresentativeNumber = "+911-123-987-468"

var (
	callersMatch = []string{
		"MATCH (poi :`Person`)<-[:REGISTERED_TO]-(poiPhone :`PhoneNumber`)-[call :CONTACTED]->(repPhone :`PhoneNumber` {number: $repNumber})",
		"WHERE call.weekday = $weekday",
	}

	flightsMatch = []string{
		"WITH poi, COUNT(call) AS numberOfCalls",
		"MATCH (poi)-[:TOOK]->(flight :`Flight`)-[:TO]-(:`City`)-[:IN]->(country :`Country`)",
		"WHERE country.name IN $countries AND flight.timestamp >= $startDate AND flight.timestamp < $endDate",
	}

	representativeCallersStatement = statement(append(callersMatch,
		"RETURN poi.name AS subjectName, COUNT(call) AS numberOfCalls",
		"ORDER BY numberOfCalls DESC",
	)...)

	callersWhoFlewStatement = statement(concat(callersMatch, flightsMatch,
		[]string{"RETURN poi.name AS subjectName, poi.id AS ID, COUNT(flight) AS flights, country.name AS country"},
	)...)

	callersEmployedAtStatement = statement(concat(callersMatch, flightsMatch, []string{
		"WITH DISTINCT poi",
		"MATCH (poi)-[employment :EMPLOYEE_AT]->(company :`Company` {name: $companyName})",
		"WHERE employment.since < $reference OR employment.until > $reference OR employment.until = -1",
		"WITH DISTINCT employment, poi, company",
		"RETURN poi.name AS subjectName, poi.id AS ID, employment.since AS since, employment.until AS until",
	})...)
)

// RepresentativeCallers finds the people whose registered number called Target on Weekday
// (Monday = 0), with their number of calls.
type RepresentativeCallers struct {
	Target  string
	Weekday int64
}

func DefaultRepresentativeCallers() RepresentativeCallers {
	return RepresentativeCallers{Target: RepresentativeNumber, Weekday: 2}
}

func (RepresentativeCallers) ID() string { return "3" }

func (RepresentativeCallers) Description() string {
	return "Find a phone number that has made calls on Wednesdays to the representative of XYZ"
}

func (p RepresentativeCallers) Query() graph.Query {
	return graph.NewQuery(representativeCallersStatement, p.params()...)
}

func (p RepresentativeCallers) params() []graph.Parameter {
	return []graph.Parameter{
		graph.P("repNumber", p.Target),
		graph.P("weekday", p.Weekday),
	}
}

func (p RepresentativeCallers) Run(ctx context.Context, store graph.Store, opts ...graph.Option) ([]Table, error) {
	records, err := query(ctx, store, p.Query(), opts)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
	}
	columns := []Column{{Name: "Subject's Name", Kind: Text}, {Name: "No. Calls", Kind: Number}}
	title := fmt.Sprintf("Calls to %s on weekday %d", p.Target, p.Weekday)
	return []Table{table(title, columns, records)}, nil
}

// CallersWhoFlew narrows RepresentativeCallers to the people that flew to one of Countries
// within [Start, End), with their number of flights per country.
type CallersWhoFlew struct {
	RepresentativeCallers
	Countries []string
	Start     time.Time
	End       time.Time
}

func DefaultCallersWhoFlew() CallersWhoFlew {
	return CallersWhoFlew{
		RepresentativeCallers: DefaultRepresentativeCallers(),
		Countries:             []string{"Japan", "UK"},
		Start:                 date(2014, time.January, 1),
		End:                   date(2014, time.December, 31),
	}
}

func (CallersWhoFlew) ID() string { return "4" }

func (CallersWhoFlew) Description() string {
	return "Among the people that called the representative, find those that have flown in or out of " +
		"one of enterprise XYZ offices in Japan, or the UK"
}

func (p CallersWhoFlew) Query() graph.Query {
	return graph.NewQuery(callersWhoFlewStatement, p.params()...)
}

func (p CallersWhoFlew) params() []graph.Parameter {
	return append(p.RepresentativeCallers.params(),
		graph.P("countries", append([]string(nil), p.Countries...)),
		graph.P("startDate", p.Start.Unix()),
		graph.P("endDate", p.End.Unix()),
	)
}

func (p CallersWhoFlew) Run(ctx context.Context, store graph.Store, opts ...graph.Option) ([]Table, error) {
	records, err := query(ctx, store, p.Query(), opts)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
	}
	columns := []Column{
		{Name: "Name", Kind: Text},
		{Name: "ID", Kind: Text},
		{Name: "No. of Flights", Kind: Number},
		{Name: "Country", Kind: Text},
	}
	title := fmt.Sprintf("Callers who flew to %s, %s", strings.Join(p.Countries, ", "), windowTitle(p.Start, p.End))
	return []Table{table(title, columns, records)}, nil
}

// CallersEmployedAt narrows CallersWhoFlew to the people whose employment at Company overlaps
// Reference. An employment with no end date always overlaps.
type CallersEmployedAt struct {
	CallersWhoFlew
	Company   string
	Reference time.Time
}

func DefaultCallersEmployedAt() CallersEmployedAt {
	return CallersEmployedAt{
		CallersWhoFlew: DefaultCallersWhoFlew(),
		Company:        "WT Enterprises",
		Reference:      date(2014, time.January, 1),
	}
}

func (CallersEmployedAt) ID() string { return "5" }

func (CallersEmployedAt) Description() string {
	return "Among the people that called the representative, and flew in or out of one of Enterprise XYZ's " +
		"subsidiaries, find those that have an employment history at WT Enterprises"
}

func (p CallersEmployedAt) Query() graph.Query {
	return graph.NewQuery(callersEmployedAtStatement, append(p.CallersWhoFlew.params(),
		graph.P("companyName", p.Company),
		graph.P("reference", p.Reference.Unix()),
	)...)
}

func (p CallersEmployedAt) Run(ctx context.Context, store graph.Store, opts ...graph.Option) ([]Table, error) {
	records, err := query(ctx, store, p.Query(), opts)
	if err != nil {
		return nil, fmt.Errorf("pattern %s: %w", p.ID(), err)
	}
	columns := []Column{
		{Name: "Name", Kind: Text},
		{Name: "ID", Kind: Text},
		{Name: "Since", Kind: Epoch},
		{Name: "Until", Kind: Epoch},
	}
	title := fmt.Sprintf("Callers employed at %s around %s", p.Company, p.Reference.Format(time.DateOnly))
	return []Table{table(title, columns, records)}, nil
}

func statement(lines ...string) string {
	return strings.Join(lines, "\n")
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
