package graph

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// labelPattern is the set of names that can be used unquoted as a label or property key.
var labelPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidLabel reports whether name is safe to splice into a statement as a label or property key.
func IsValidLabel(name string) bool {
	return labelPattern.MatchString(name)
}

// entityMetadata holds the parsed `crud` tag information for a specific struct type.
type entityMetadata struct {
	// Label is the graph node label. It comes from the `label:` tag component on the
	// primary key and defaults to the struct's name.
	Label string
	// PKField is the name of the struct field marked as the primary key.
	PKField string
	// PKProp is the property name of the primary key in the database.
	PKProp string
	// Mappings maps struct field names to their corresponding database property names.
	Mappings map[string]string
}

// parseTagsFromType inspects a struct type and extracts persistence metadata from its
// `crud` tags, e.g. `crud:"pk,property:id,label:Person"`.
func parseTagsFromType(typ reflect.Type) (*entityMetadata, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %s is not a struct", typ.Name())
	}

	meta := &entityMetadata{
		Label:    typ.Name(),
		Mappings: make(map[string]string),
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("crud")
		if tag == "" {
			continue
		}

		isPk := false
		propName := ""
		for _, part := range strings.Split(tag, ",") {
			switch {
			case part == "pk":
				isPk = true
			case strings.HasPrefix(part, "property:"):
				propName = strings.TrimPrefix(part, "property:")
			case strings.HasPrefix(part, "label:"):
				meta.Label = strings.TrimPrefix(part, "label:")
			}
		}

		if propName == "" {
			return nil, fmt.Errorf("field %s is missing 'property' tag component", field.Name)
		}
		if !IsValidLabel(propName) {
			return nil, fmt.Errorf("field %s maps to invalid property name %q", field.Name, propName)
		}

		if isPk {
			meta.PKField = field.Name
			meta.PKProp = propName
		}
		meta.Mappings[field.Name] = propName
	}

	if meta.PKField == "" {
		return nil, fmt.Errorf("no primary key ('pk') tag defined for struct %s", typ.Name())
	}
	if !IsValidLabel(meta.Label) {
		return nil, fmt.Errorf("struct %s maps to invalid label %q", typ.Name(), meta.Label)
	}
	return meta, nil
}

func parseTags[T any]() (*entityMetadata, error) {
	var instance T
	return parseTagsFromType(reflect.TypeOf(instance))
}
