package resource

import (
	"github.com/iancoleman/strcase"

	"github.com/activerest/activerest/registry"
)

// Schema is the declarative description of a resource type: where
// it lives, which field identifies it, which fields the public
// setter accepts and how embedded payloads map to related
// resources. A single Schema instance is shared by every model of
// the type and must not be mutated after construction
type Schema struct {
	// Name of the resource type, e.g. "BlogPost"
	Name string

	// Path is the resource path segment. Empty derives it from
	// Name, e.g. "BlogPost" becomes "blog_post"
	Path string

	// Identifier is the name of the identifier field. Empty
	// defaults to "id"
	Identifier string

	// Connection is the name of the connection in the registry.
	// Empty defaults to registry.DefaultName
	Connection string

	// ReadOnly fields are never accepted by the public setter.
	// This enforces API immutability contracts such as server
	// assigned timestamps
	ReadOnly []string

	// Fillable is the allow-list for mass-fill. Nil allows every
	// field
	Fillable []string

	// Exclude fields are dropped from save request bodies
	Exclude []string

	// Relations maps payload field names to embedded resource
	// declarations resolved during hydration
	Relations map[string]Relation

	// ParseFind locates the single-resource sub-structure inside a
	// decoded payload. Nil uses the payload as-is
	ParseFind func(payload interface{}) interface{}

	// ParseAll locates the array sub-structure inside a decoded
	// payload. Nil uses the payload as-is
	ParseAll func(payload interface{}) interface{}

	// Collection builds the container for hydrated list results.
	// Nil uses NewCollection
	Collection func(items []*Model) *Collection
}

func (s *Schema) path() string {
	if len(s.Path) > 0 {
		return s.Path
	}

	return strcase.ToSnake(s.Name)
}

func (s *Schema) identifier() string {
	if len(s.Identifier) > 0 {
		return s.Identifier
	}

	return "id"
}

func (s *Schema) connection() string {
	if len(s.Connection) > 0 {
		return s.Connection
	}

	return registry.DefaultName
}

func (s *Schema) readOnly(field string) bool {
	return contains(s.ReadOnly, field)
}

func (s *Schema) fillable(field string) bool {
	if s.Fillable == nil {
		return true
	}

	return contains(s.Fillable, field)
}

func (s *Schema) excluded(field string) bool {
	return contains(s.Exclude, field)
}

func (s *Schema) parseFind(payload interface{}) interface{} {
	if s.ParseFind == nil {
		return payload
	}

	return s.ParseFind(payload)
}

func (s *Schema) parseAll(payload interface{}) interface{} {
	if s.ParseAll == nil {
		return payload
	}

	return s.ParseAll(payload)
}

func (s *Schema) collection(items []*Model) *Collection {
	if s.Collection == nil {
		return NewCollection(items)
	}

	return s.Collection(items)
}

func contains(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}

	return false
}
