package entities

import (
	"iter"
	"strings"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

var (
	personStatement = statement(
		"MERGE (p :`Person` {id: $personId})",
		"SET p.name = $name",
		"SET p.sex = $sex",
		"MERGE (n :`PhoneNumber` {number: $number})",
		"MERGE (n)-[:REGISTERED_TO]->(p)",
	)

	phoneCallStatement = statement(
		"MERGE (n1 :`PhoneNumber` {number: $number1})",
		"MERGE (n2 :`PhoneNumber` {number: $number2})",
		"CREATE (n1)-[r :CONTACTED]->(n2)",
		"SET r.weekday = $weekday",
		"SET r.hour = $hour",
		"SET r.timestamp = $timestamp",
	)

	flightStatement = statement(
		"MERGE (country1 :`Country` {name: $co1})",
		"MERGE (country2 :`Country` {name: $co2})",
		"MERGE (city1 :`City` {name: $ci1})",
		"MERGE (city2 :`City` {name: $ci2})",
		"MERGE (city1)-[:IN]->(country1)",
		"MERGE (city2)-[:IN]->(country2)",
		"MERGE (person :`Person` {id: $personId})",
		"MERGE (flight :`Flight` {number: $flightNo})",
		"SET flight.timestamp = $timestamp",
		"MERGE (flight)-[:FROM]->(city1)",
		"MERGE (flight)-[:TO]->(city2)",
		"MERGE (person)-[:TOOK]->(flight)",
	)

	employmentStatement = statement(
		"MERGE (person :`Person` {id: $personId})",
		"MERGE (company :`Company` {name: $companyName})",
		"CREATE (person)-[emp :EMPLOYEE_AT]->(company)",
		"SET emp.since = $since",
		"SET emp.until = $until",
	)
)

func statement(lines ...string) string {
	return strings.Join(lines, "\n")
}

// Mutation upserts the person by id, overwrites name and sex, upserts the phone number and
// links it to the person.
func (p Person) Mutation() graph.Query {
	return graph.NewQuery(personStatement,
		graph.P("personId", p.ID),
		graph.P("name", p.Name),
		graph.P("sex", p.Sex),
		graph.P("number", p.Number),
	)
}

// Mutation upserts both phone numbers and creates a new CONTACTED edge for this call.
func (c PhoneCall) Mutation() graph.Query {
	return graph.NewQuery(phoneCallStatement,
		graph.P("number1", c.Source),
		graph.P("number2", c.Target),
		graph.P("weekday", int64(c.Weekday)),
		graph.P("hour", int64(c.Hour)),
		graph.P("timestamp", c.Timestamp),
	)
}

// Mutation upserts the route's places, the flight and the traveller. The person is only
// referenced by id: an existing name or sex is left untouched.
func (f Flight) Mutation() graph.Query {
	return graph.NewQuery(flightStatement,
		graph.P("co1", f.Departure.Country),
		graph.P("co2", f.Destination.Country),
		graph.P("ci1", f.Departure.City),
		graph.P("ci2", f.Destination.City),
		graph.P("flightNo", f.Number),
		graph.P("personId", f.Person),
		graph.P("timestamp", f.Timestamp),
	)
}

// Mutation references the person by id, upserts the company and creates a new
// EMPLOYEE_AT edge for this episode.
func (e Employment) Mutation() graph.Query {
	return graph.NewQuery(employmentStatement,
		graph.P("personId", e.Person),
		graph.P("companyName", e.Company),
		graph.P("since", e.Since),
		graph.P("until", e.Until),
	)
}

// Compile returns the mutation of each entity, in order.
func Compile(ms ...GraphMutation) []graph.Query {
	queries := make([]graph.Query, len(ms))
	for i, m := range ms {
		queries[i] = m.Mutation()
	}
	return queries
}

// Mutations lazily compiles a slice of entities, for streaming into graph.ExecuteChunked.
func Mutations[M GraphMutation](items []M) iter.Seq[graph.Query] {
	return func(yield func(graph.Query) bool) {
		for _, m := range items {
			if !yield(m.Mutation()) {
				return
			}
		}
	}
}
