package entities

// Read models for the graph repository. Each maps one node label by its natural key.

// PersonNode is a Person node keyed by its id.
type PersonNode struct {
	ID   string `crud:"pk,property:id,label:Person" json:"id"`
	Name string `crud:"property:name" json:"name"`
	Sex  string `crud:"property:sex" json:"sex"`
}

// PhoneNumberNode is a PhoneNumber node keyed by the number itself.
type PhoneNumberNode struct {
	Number string `crud:"pk,property:number,label:PhoneNumber" json:"number"`
}

// CompanyNode is a Company node keyed by its name.
type CompanyNode struct {
	Name string `crud:"pk,property:name,label:Company" json:"name"`
}

// CountryNode is a Country node keyed by its name.
type CountryNode struct {
	Name string `crud:"pk,property:name,label:Country" json:"name"`
}

// CityNode is a City node keyed by its name.
type CityNode struct {
	Name string `crud:"pk,property:name,label:City" json:"name"`
}

// FlightNode is a Flight node keyed by its flight number.
type FlightNode struct {
	Number    string `crud:"pk,property:number,label:Flight" json:"number"`
	Timestamp int64  `crud:"property:timestamp" json:"timestamp"`
}
