// Package entities holds the forensics domain objects and compiles each of them into the
// graph mutation that records it.
//
// Nodes are enduring identities and are always MERGEd on their natural key, so inserting
// the same entity twice converges on one node. CONTACTED and EMPLOYEE_AT relationships are
// events and episodes and are always CREATEd, so repeated insertion accumulates edges.
package entities

import (
	"time"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/graph"
)

// StillEmployed is the Employment.Until sentinel for an open-ended employment.
const StillEmployed int64 = -1

// GraphMutation is implemented by every entity that can be written to the graph.
// Compilation is a pure transformation and cannot fail.
type GraphMutation interface {
	Mutation() graph.Query
}

// Person is someone with a registered phone number.
type Person struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Sex    string `yaml:"sex"`
	Number string `yaml:"number"`
}

// PhoneCall is one call from Source to Target. Weekday (Monday = 0) and Hour are
// derived from Timestamp, in UTC.
type PhoneCall struct {
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
	Weekday   int    `yaml:"weekday"`
	Hour      int    `yaml:"hour"`
	Timestamp int64  `yaml:"timestamp"`
}

// Location is a city and the country it belongs to.
type Location struct {
	City    string `yaml:"city"`
	Country string `yaml:"country"`
}

// Flight is a single flight taken by the person with id Person.
type Flight struct {
	Number      string   `yaml:"number"`
	Timestamp   int64    `yaml:"timestamp"`
	Departure   Location `yaml:"departure"`
	Destination Location `yaml:"destination"`
	Person      string   `yaml:"person"`
}

// Employment is one episode of Person working at Company, in epoch seconds.
// Until is StillEmployed for a current position.
type Employment struct {
	Person  string `yaml:"person"`
	Company string `yaml:"company"`
	Since   int64  `yaml:"since"`
	Until   int64  `yaml:"until"`
}

// Weekday returns the day of the week of t with Monday = 0 and Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NewPhoneCall builds a call at the given instant, deriving weekday and hour from it.
func NewPhoneCall(source, target string, at time.Time) PhoneCall {
	at = at.UTC()
	return PhoneCall{
		Source:    source,
		Target:    target,
		Weekday:   Weekday(at),
		Hour:      at.Hour(),
		Timestamp: at.Unix(),
	}
}

// Consistent reports whether Weekday and Hour agree with Timestamp.
func (c PhoneCall) Consistent() bool {
	at := time.Unix(c.Timestamp, 0).UTC()
	return c.Weekday == Weekday(at) && c.Hour == at.Hour()
}

// Open reports whether the employment has no end date.
func (e Employment) Open() bool {
	return e.Until == StillEmployed
}
