package seed

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/entities"
)

// Persons of interest planted in every generated dataset.
var (
	// Representative works for Enterprise XYZ and receives the seller's calls.
	Representative = entities.Person{Name: "Adi Segan", Sex: "F", Number: "+911-123-987-468"}
	// Seller calls the representative on Wednesdays, flies to Ôsaka and worked at WT Enterprises.
	Seller = entities.Person{Name: "Kiran Trope", Sex: "M", Number: "+502-987-123-753"}
)

const (
	WTEnterprises = "WT Enterprises"
	EnterpriseXYZ = "Enterprise XYZ"

	sellerCalls  = 17
	bogusFlights = 2
	companies    = 200
)

var (
	// Every generated instant lies within the window ending at horizon.
	horizon = time.Date(2014, time.December, 31, 11, 59, 59, 0, time.UTC)

	arizona = entities.Location{City: "Arizona", Country: "United States"}
	osaka   = entities.Location{City: "Ôsaka", Country: "Japan"}
)

// Counts sizes the random part of a dataset.
type Counts struct {
	People     int
	Calls      int
	Flights    int
	Employment int
}

// DefaultCounts matches the size of the reference investigation.
func DefaultCounts() Counts {
	return Counts{People: 1000, Calls: 10000, Flights: 10000, Employment: 880}
}

// Generator builds synthetic datasets. Two generators with the same seed produce the same
// dataset.
type Generator struct {
	src *rand.ChaCha8
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed. A zero seed picks one from the clock.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], uint64(seed))
	src := rand.NewChaCha8(key)
	return &Generator{src: src, rng: rand.New(src)}
}

// Generate returns counts.People random people, calls, flights and employment episodes,
// plus the persons of interest and their activity.
func (g *Generator) Generate(counts Counts) (*Dataset, error) {
	if counts.People < 2 {
		return nil, fmt.Errorf("need at least 2 people, got %d", counts.People)
	}

	people, err := g.people(counts.People)
	if err != nil {
		return nil, err
	}
	folk := []entities.Person{people[g.rng.IntN(len(people))], people[g.rng.IntN(len(people))]}
	for folk[1].ID == folk[0].ID {
		folk[1] = people[g.rng.IntN(len(people))]
	}

	representative, seller := Representative, Seller
	if representative.ID, err = g.id(); err != nil {
		return nil, err
	}
	if seller.ID, err = g.id(); err != nil {
		return nil, err
	}

	everyone := append(people, representative, seller)
	ds := &Dataset{People: everyone}

	names := g.companies()
	for range counts.Employment {
		since := g.instant(10*365 + 1)
		until := entities.StillEmployed
		if g.rng.IntN(2) == 1 {
			until = since.AddDate(0, 0, 90+g.rng.IntN(3650-90+1)).Unix()
		}
		ds.Employment = append(ds.Employment, entities.Employment{
			Person:  everyone[g.rng.IntN(len(everyone))].ID,
			Company: names[g.rng.IntN(len(names))],
			Since:   since.Unix(),
			Until:   until,
		})
	}
	ds.Employment = append(ds.Employment,
		entities.Employment{
			Person:  seller.ID,
			Company: WTEnterprises,
			Since:   time.Date(2013, time.July, 1, 0, 0, 0, 0, time.UTC).Unix(),
			Until:   time.Date(2014, time.September, 30, 0, 0, 0, 0, time.UTC).Unix(),
		},
		entities.Employment{
			Person:  seller.ID,
			Company: EnterpriseXYZ,
			Since:   time.Date(2014, time.November, 1, 0, 0, 0, 0, time.UTC).Unix(),
			Until:   entities.StillEmployed,
		},
	)

	for range counts.Calls {
		src := everyone[g.rng.IntN(len(everyone))].Number
		dst := everyone[g.rng.IntN(len(everyone))].Number
		ds.Calls = append(ds.Calls, entities.NewPhoneCall(src, dst, g.instant(366)))
	}
	for range sellerCalls {
		ds.Calls = append(ds.Calls, entities.NewPhoneCall(seller.Number, representative.Number, g.instantOn(time.Wednesday)))
	}
	for _, f := range folk {
		ds.Calls = append(ds.Calls, entities.NewPhoneCall(f.Number, representative.Number, g.instantOn(time.Wednesday)))
	}

	flights := 0
	flight := func(from, to entities.Location, person string) entities.Flight {
		flights++
		return entities.Flight{
			Number:      fmt.Sprintf("%s-%06d", airlines[g.rng.IntN(len(airlines))], flights),
			Timestamp:   g.instant(366).Unix(),
			Departure:   from,
			Destination: to,
			Person:      person,
		}
	}
	for range counts.Flights {
		from, to := g.route()
		ds.Flights = append(ds.Flights, flight(from, to, everyone[g.rng.IntN(len(everyone))].ID))
	}
	for range 3 {
		ds.Flights = append(ds.Flights, flight(arizona, osaka, seller.ID))
	}
	// Bogus flights to Ôsaka belong to random people, never to a person of interest.
	for range bogusFlights {
		ds.Flights = append(ds.Flights, flight(g.location(), osaka, people[g.rng.IntN(len(people))].ID))
	}
	for _, f := range folk {
		ds.Flights = append(ds.Flights, flight(g.location(), osaka, f.ID))
	}

	return ds, nil
}

func (g *Generator) people(n int) ([]entities.Person, error) {
	taken := map[string]bool{Representative.Number: true, Seller.Number: true}
	people := make([]entities.Person, 0, n)
	for range n {
		id, err := g.id()
		if err != nil {
			return nil, err
		}
		number := g.phoneNumber()
		for taken[number] {
			number = g.phoneNumber()
		}
		taken[number] = true

		sex, first := "F", femaleNames
		if g.rng.IntN(2) == 1 {
			sex, first = "M", maleNames
		}
		people = append(people, entities.Person{
			ID:     id,
			Name:   first[g.rng.IntN(len(first))] + " " + surnames[g.rng.IntN(len(surnames))],
			Sex:    sex,
			Number: number,
		})
	}
	return people, nil
}

func (g *Generator) id() (string, error) {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return "", fmt.Errorf("failed to generate person id: %w", err)
	}
	return id.String(), nil
}

func (g *Generator) phoneNumber() string {
	return fmt.Sprintf("+%03d-%03d-%03d-%03d", 1+g.rng.IntN(999), g.rng.IntN(1000), g.rng.IntN(1000), g.rng.IntN(1000))
}

// companies returns the random company names followed by the two of interest.
func (g *Generator) companies() []string {
	names := make([]string, 0, companies+2)
	for range companies {
		names = append(names, fmt.Sprintf("%s %s %s",
			companyWords[g.rng.IntN(len(companyWords))],
			companyNouns[g.rng.IntN(len(companyNouns))],
			companySuffixes[g.rng.IntN(len(companySuffixes))],
		))
	}
	return append(names, WTEnterprises, EnterpriseXYZ)
}

// instant returns a whole-hour offset before horizon, at most days back.
func (g *Generator) instant(days int) time.Time {
	return horizon.Add(-time.Duration(g.rng.IntN(days*24+1)) * time.Hour)
}

func (g *Generator) instantOn(day time.Weekday) time.Time {
	t := g.instant(366)
	for t.Weekday() != day {
		t = g.instant(366)
	}
	return t
}

func (g *Generator) location() entities.Location {
	return locations[g.rng.IntN(len(locations))]
}

// route returns two distinct locations.
func (g *Generator) route() (entities.Location, entities.Location) {
	from, to := g.location(), g.location()
	for to == from {
		to = g.location()
	}
	return from, to
}
