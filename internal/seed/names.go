package seed

import "github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/entities"

var (
	femaleNames = []string{
		"Amelia", "Ana", "Aiko", "Beatriz", "Chloe", "Daniela", "Elena", "Fatima", "Grace", "Hana",
		"Ingrid", "Julia", "Keiko", "Laura", "Maya", "Nadia", "Olivia", "Priya", "Rosa", "Sofia",
		"Tamara", "Ursula", "Valeria", "Yuki", "Zoe",
	}
	maleNames = []string{
		"Adrian", "Bruno", "Carlos", "David", "Emil", "Felipe", "George", "Hiroshi", "Ivan", "James",
		"Kenji", "Luis", "Marco", "Nikhil", "Omar", "Pablo", "Rafael", "Samuel", "Tomas", "Victor",
		"William", "Xavier", "Yusuf", "Zane", "Arjun",
	}
	surnames = []string{
		"Alvarez", "Brown", "Chen", "Dubois", "Edwards", "Fischer", "Garcia", "Hoffman", "Ito", "Jensen",
		"Kowalski", "Lopez", "Martin", "Nakamura", "Okafor", "Patel", "Quinn", "Rossi", "Silva", "Tanaka",
		"Usman", "Varga", "Walsh", "Yamamoto", "Zimmer",
	}

	companyWords = []string{
		"Global", "Pacific", "Northern", "United", "Silver", "Summit", "Blue", "Prime", "Atlas", "Delta",
	}
	companyNouns = []string{
		"Logistics", "Systems", "Trading", "Holdings", "Dynamics", "Imports", "Networks", "Partners", "Labs", "Freight",
	}
	companySuffixes = []string{"Inc", "LLC", "Ltd", "Group", "Corp"}

	airlines = []string{"AA", "BA", "DL", "JL", "LH", "NH", "QF", "UA", "AF", "KL"}

	locations = []entities.Location{
		{City: "Arizona", Country: "United States"},
		{City: "Chicago", Country: "United States"},
		{City: "New York", Country: "United States"},
		{City: "San Francisco", Country: "United States"},
		{City: "Toronto", Country: "Canada"},
		{City: "Vancouver", Country: "Canada"},
		{City: "Mexico City", Country: "Mexico"},
		{City: "Guatemala City", Country: "Guatemala"},
		{City: "Bogotá", Country: "Colombia"},
		{City: "Lima", Country: "Peru"},
		{City: "São Paulo", Country: "Brazil"},
		{City: "Buenos Aires", Country: "Argentina"},
		{City: "London", Country: "UK"},
		{City: "Manchester", Country: "UK"},
		{City: "Paris", Country: "France"},
		{City: "Berlin", Country: "Germany"},
		{City: "Frankfurt", Country: "Germany"},
		{City: "Madrid", Country: "Spain"},
		{City: "Rome", Country: "Italy"},
		{City: "Amsterdam", Country: "Netherlands"},
		{City: "Stockholm", Country: "Sweden"},
		{City: "Warsaw", Country: "Poland"},
		{City: "Istanbul", Country: "Turkey"},
		{City: "Cairo", Country: "Egypt"},
		{City: "Lagos", Country: "Nigeria"},
		{City: "Nairobi", Country: "Kenya"},
		{City: "Johannesburg", Country: "South Africa"},
		{City: "Dubai", Country: "United Arab Emirates"},
		{City: "Mumbai", Country: "India"},
		{City: "New Delhi", Country: "India"},
		{City: "Bangkok", Country: "Thailand"},
		{City: "Singapore", Country: "Singapore"},
		{City: "Hong Kong", Country: "China"},
		{City: "Shanghai", Country: "China"},
		{City: "Seoul", Country: "South Korea"},
		{City: "Tokyo", Country: "Japan"},
		{City: "Ôsaka", Country: "Japan"},
		{City: "Sydney", Country: "Australia"},
		{City: "Auckland", Country: "New Zealand"},
	}
)
