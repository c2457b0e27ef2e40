package graph

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// Repository provides read-only lookups for nodes of one kind, described by the `crud`
// tags on T. Writes never go through a Repository; they are compiled from entities.
type Repository[T any] struct {
	store Store
	opts  []Option
	meta  *entityMetadata
}

// NewRepository creates a repository for the node type T.
//
// Parameters:
//   - store: The store every lookup runs against, in its own read-only transaction.
//   - opts: Options applied to those transactions.
//
// Returns:
//
//	A new Repository, or an error if the struct tags of T are invalid.
func NewRepository[T any](store Store, opts ...Option) (*Repository[T], error) {
	meta, err := parseTags[T]()
	if err != nil {
		return nil, err
	}
	return &Repository[T]{
		store: store,
		opts:  append(append([]Option{}, opts...), ReadOnly()),
		meta:  meta,
	}, nil
}

// Label returns the node label the repository reads.
func (r *Repository[T]) Label() string {
	return r.meta.Label
}

// FindByID retrieves a single node by its natural key.
//
// Returns:
//
//	A pointer to the mapped node, ErrNotFound if no node has that key, or an error if more
//	than one does (the natural key is meant to be unique).
func (r *Repository[T]) FindByID(ctx context.Context, id any) (*T, error) {
	q, err := FromBuilder(gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label).WithProperties(map[string]interface{}{r.meta.PKProp: id})).
		Return("n"))
	if err != nil {
		return nil, err
	}

	records, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	if len(records) > 1 {
		return nil, fmt.Errorf("expected 1 %s with %s=%v but found %d", r.meta.Label, r.meta.PKProp, id, len(records))
	}

	value, ok := records[0].Get("n")
	if !ok {
		return nil, fmt.Errorf("could not find return value 'n' in query result")
	}
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("return value 'n' is not a node")
	}

	entity := new(T)
	if err := mapNodeToStruct(node, entity, r.meta); err != nil {
		return nil, err
	}
	return entity, nil
}

// Constraint returns the schema statement enforcing uniqueness of the natural key.
// It is idempotent and must run in a write transaction of its own.
func (r *Repository[T]) Constraint() Query {
	name := strings.ToLower(r.meta.Label + "_" + r.meta.PKProp)
	return NewQuery(fmt.Sprintf("CREATE CONSTRAINT %s IF NOT EXISTS FOR (n :`%s`) REQUIRE n.`%s` IS UNIQUE",
		name, r.meta.Label, r.meta.PKProp))
}

// Count returns the number of nodes carrying the repository's label.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, NewQuery(fmt.Sprintf("MATCH (n :`%s`) RETURN count(n) AS total", r.meta.Label)))
}

// CountByProperty returns the number of nodes whose property equals value.
func (r *Repository[T]) CountByProperty(ctx context.Context, property string, value any) (int64, error) {
	if !IsValidLabel(property) {
		return 0, fmt.Errorf("invalid property name %q", property)
	}
	return r.count(ctx, NewQuery(
		fmt.Sprintf("MATCH (n :`%s`) WHERE n.`%s` = $value RETURN count(n) AS total", r.meta.Label, property),
		P("value", value),
	))
}

func (r *Repository[T]) count(ctx context.Context, q Query) (int64, error) {
	records, err := r.query(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	total, _, err := neo4j.GetRecordValue[int64](records[0], "total")
	if err != nil {
		return 0, fmt.Errorf("reading count: %w", err)
	}
	return total, nil
}

func (r *Repository[T]) query(ctx context.Context, q Query) ([]*neo4j.Record, error) {
	var records []*neo4j.Record
	err := WithTransaction(ctx, r.store, func(tx *Transaction) error {
		var err error
		records, err = tx.Execute(ctx, q)
		return err
	}, r.opts...)
	return records, err
}

// mapNodeToStruct populates a struct's fields from a node's properties using the parsed metadata.
// Driver values are converted when the field type differs (e.g. int64 into int).
func mapNodeToStruct(node neo4j.Node, entity any, meta *entityMetadata) error {
	val := reflect.ValueOf(entity).Elem()

	for fieldName, propName := range meta.Mappings {
		field := val.FieldByName(fieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		propValue, ok := node.Props[propName]
		if !ok || propValue == nil {
			continue
		}

		pv := reflect.ValueOf(propValue)
		switch {
		case pv.Type().AssignableTo(field.Type()):
			field.Set(pv)
		case isNumeric(pv.Kind()) && isNumeric(field.Kind()):
			field.Set(pv.Convert(field.Type()))
		default:
			return fmt.Errorf("property %s of type %s cannot be stored in field %s (%s)",
				propName, pv.Type(), fieldName, field.Type())
		}
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
