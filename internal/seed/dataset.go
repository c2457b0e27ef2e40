package seed

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saulfrancisco-ruizacevedo/go-neoforensics/internal/entities"
)

// Dataset is a complete set of entities to seed, in seeding order.
type Dataset struct {
	People     []entities.Person     `yaml:"people"`
	Calls      []entities.PhoneCall  `yaml:"calls"`
	Flights    []entities.Flight     `yaml:"flights"`
	Employment []entities.Employment `yaml:"employment"`
}

// Len returns the number of entities in the dataset.
func (d *Dataset) Len() int {
	return len(d.People) + len(d.Calls) + len(d.Flights) + len(d.Employment)
}

// Validate reports the first call whose weekday or hour disagrees with its timestamp.
func (d *Dataset) Validate() error {
	for i, c := range d.Calls {
		if !c.Consistent() {
			return fmt.Errorf("call %d (%s -> %s): weekday %d hour %d do not match timestamp %d",
				i, c.Source, c.Target, c.Weekday, c.Hour, c.Timestamp)
		}
	}
	return nil
}

func (d *Dataset) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return enc.Close()
}

func ReadYAML(r io.Reader) (*Dataset, error) {
	var d Dataset
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveFile writes the dataset to path, replacing any existing file.
func (d *Dataset) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.WriteYAML(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadYAML(f)
}
