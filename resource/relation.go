package resource

// Kind tags how an embedded payload field maps to related
// resources
type Kind int

const (
	// One embeds a single related resource
	One Kind = iota + 1

	// Many embeds a homogeneous list of related resources
	Many
)

// Relation declares that a payload field holds an embedded
// resource of another schema. Fields without a declaration are
// stored verbatim as scalars
type Relation struct {
	Kind   Kind
	Schema *Schema
}

// IncludesOne declares a single embedded resource
func IncludesOne(schema *Schema) Relation {
	return Relation{Kind: One, Schema: schema}
}

// IncludesMany declares an embedded list of resources
func IncludesMany(schema *Schema) Relation {
	return Relation{Kind: Many, Schema: schema}
}
