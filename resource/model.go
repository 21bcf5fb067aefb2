package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/activerest/activerest/conn"
	"github.com/activerest/activerest/registry"
)

// Model is one entity instance of a resource type. It keeps two
// property sets: the stable values written by hydration and the
// modified values written by the public setter, where a modified
// value shadows the stable one until the next successful save or
// a reset.
//
// A model is not safe for concurrent use; callers sharing one
// instance between goroutines must serialize access themselves
type Model struct {
	schema *Schema
	reg    *registry.Registry

	stable   map[string]interface{}
	modified map[string]interface{}

	// dependents are the path fragments prepended to the resource
	// path for nested routes, e.g. ["posts/1234"] for
	// posts/1234/comments
	dependents []string

	lastResponse *conn.Response
}

// NewModel creates a transient, empty model. The registry may be
// nil for models that are only hydrated and inspected; Save and
// Destroy require one
func NewModel(schema *Schema, reg *registry.Registry) *Model {
	return &Model{
		schema:   schema,
		reg:      reg,
		stable:   make(map[string]interface{}),
		modified: make(map[string]interface{}),
	}
}

// Schema returns the schema the model was created from
func (m *Model) Schema() *Schema {
	return m.schema
}

// Get returns the current value of a field: the modified value if
// one is pending, else the stable value, else nil
func (m *Model) Get(field string) interface{} {
	if v, ok := m.modified[field]; ok {
		return v
	}

	return m.stable[field]
}

// Set stages a new value for a field. Fields in the schema's
// read-only set are silently ignored
func (m *Model) Set(field string, value interface{}) {
	if m.schema.readOnly(field) {
		return
	}

	m.modified[field] = value
}

// Fill mass-assigns fields through Set. Fields outside the
// schema's fillable allow-list are skipped; read-only protection
// applies as usual since every accepted field is routed through
// the setter
func (m *Model) Fill(data map[string]interface{}) {
	for field, value := range data {
		if !m.schema.fillable(field) {
			continue
		}

		m.Set(field, value)
	}
}

// Reset discards all pending modifications, reverting the model
// to its last hydrated state
func (m *Model) Reset() {
	m.modified = make(map[string]interface{})
}

// Original returns the stable value of a field regardless of any
// pending modification
func (m *Model) Original(field string) interface{} {
	return m.stable[field]
}

// IsDirty reports whether the model has pending modifications
func (m *Model) IsDirty() bool {
	return len(m.modified) > 0
}

// ToMap returns the merged view of the model's properties, with
// modified values shadowing stable ones
func (m *Model) ToMap() map[string]interface{} {
	merged := make(map[string]interface{}, len(m.stable)+len(m.modified))
	for field, value := range m.stable {
		merged[field] = value
	}
	for field, value := range m.modified {
		merged[field] = value
	}

	return merged
}

// MarshalJSON serializes the merged property view, so models
// embedded in save bodies encode as plain objects
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToMap())
}

// Identifier returns the current identifier value and whether the
// model has one
func (m *Model) Identifier() (interface{}, bool) {
	v := m.Get(m.schema.identifier())
	if v == nil || v == "" {
		return nil, false
	}

	return v, true
}

// Through prepends a dependent resource path to the model's own
// path, composing nested routes such as posts/1234/comments. The
// parent is either a literal path fragment or another model, in
// which case that model's resource URI is used. Adding the same
// fragment twice is a no-op
func (m *Model) Through(parent interface{}) error {
	segment, err := dependentSegment(parent)
	if err != nil {
		return err
	}

	m.through(segment)
	return nil
}

func (m *Model) through(segment string) {
	for _, existing := range m.dependents {
		if existing == segment {
			return
		}
	}

	m.dependents = append(m.dependents, segment)
}

// ResourceURI composes the model's path: dependent fragments,
// then the resource path segment, then the identifier when the
// model has one
func (m *Model) ResourceURI() string {
	uri := m.collectionURI()
	if id, ok := m.Identifier(); ok {
		uri += "/" + formatIdentifier(id)
	}

	return uri
}

func (m *Model) collectionURI() string {
	segments := make([]string, 0, len(m.dependents)+1)
	segments = append(segments, m.dependents...)
	segments = append(segments, m.schema.path())

	return strings.Join(segments, "/")
}

// Hydrate populates the stable property set from a decoded
// payload. Fields declared in the schema's relation table are
// recursively resolved into models and collections of the related
// schema; every other field is stored verbatim. Nil input is a
// no-op; any other non-object input fails with ErrInvalidPayload
func (m *Model) Hydrate(data interface{}) error {
	if data == nil {
		return nil
	}

	object, ok := data.(map[string]interface{})
	if !ok {
		return ErrInvalidPayload{Value: data}
	}

	for field, value := range object {
		relation, ok := m.schema.Relations[field]
		if !ok {
			m.stable[field] = value
			continue
		}

		resolved, err := m.resolveRelation(relation, value)
		if err != nil {
			return err
		}

		m.stable[field] = resolved
	}

	return nil
}

func (m *Model) resolveRelation(relation Relation, value interface{}) (interface{}, error) {
	switch relation.Kind {
	case One:
		object, ok := value.(map[string]interface{})
		if !ok || len(object) == 0 {
			// pass-through for nullable relations
			return value, nil
		}

		related := NewModel(relation.Schema, m.reg)
		if err := related.Hydrate(object); err != nil {
			return nil, err
		}

		return related, nil

	case Many:
		if value == nil {
			return NewCollection(nil), nil
		}

		list, ok := value.([]interface{})
		if !ok {
			return nil, ErrInvalidPayload{Value: value}
		}

		items := make([]*Model, 0, len(list))
		for _, element := range list {
			related := NewModel(relation.Schema, m.reg)
			if err := related.Hydrate(element); err != nil {
				return nil, err
			}

			items = append(items, related)
		}

		return relation.Schema.collection(items), nil

	default:
		return value, nil
	}
}

// Save persists the model: a POST to the collection path when the
// model has no identifier value, otherwise the connection's
// update method on the model's own path. When the connection has
// update-diff enabled, updates carry only the modified fields.
//
// On a successful response the pending modifications become the
// new stable state, the response payload (located through the
// schema's ParseFind hook) re-hydrates the model and the modified
// set is cleared. An unsuccessful response returns false with a
// nil error unless the connection's throw policy turned it into
// one; the response stays inspectable through LastResponse
func (m *Model) Save(ctx context.Context, params *Params) (bool, error) {
	cn, err := m.connection()
	if err != nil {
		return false, err
	}

	var req *conn.Request
	if _, ok := m.Identifier(); !ok {
		req, err = cn.BuildRequest(http.MethodPost, m.collectionURI(),
			params.query(), params.headers(), m.saveBody(false))
	} else {
		req, err = cn.BuildRequest(cn.UpdateMethod(), m.ResourceURI(),
			params.query(), params.headers(), m.saveBody(cn.UpdateDiff()))
	}
	if err != nil {
		return false, err
	}

	res, err := cn.Send(ctx, req)
	m.lastResponse = res
	if err != nil {
		return false, err
	}

	if !cn.Success(res) {
		return false, nil
	}

	payload, err := cn.Decode(res)
	if err != nil {
		return false, err
	}

	// pending modifications become stable before the response
	// payload, if any, overwrites them
	for field, value := range m.modified {
		m.stable[field] = value
	}
	m.modified = make(map[string]interface{})

	if payload != nil {
		if err := m.Hydrate(m.schema.parseFind(payload)); err != nil {
			return false, err
		}
	}

	return true, nil
}

// Destroy deletes the remote resource at the model's own path.
// Success is purely a function of the response classification; no
// local state is mutated besides the last response. The model has
// no defined behaviour afterwards, discarding the reference is
// the caller's responsibility
func (m *Model) Destroy(ctx context.Context, params *Params) (bool, error) {
	cn, err := m.connection()
	if err != nil {
		return false, err
	}

	if _, ok := m.Identifier(); !ok {
		return false, ErrMissingIdentifier{Resource: m.schema.Name}
	}

	req, err := cn.BuildRequest(http.MethodDelete, m.ResourceURI(),
		params.query(), params.headers(), nil)
	if err != nil {
		return false, err
	}

	res, err := cn.Send(ctx, req)
	m.lastResponse = res
	if err != nil {
		return false, err
	}

	return cn.Success(res), nil
}

// LastResponse returns the response of the model's most recent
// exchange, or nil if it never reached the transport. It is the
// inspection point for the non-throwing posture
func (m *Model) LastResponse() *conn.Response {
	return m.lastResponse
}

func (m *Model) connection() (*conn.Connection, error) {
	return m.reg.Get(m.schema.connection())
}

// saveBody builds the request body for a save: the full merged
// property set, or only the modified subset when diff is set. The
// schema's excluded fields are dropped either way
func (m *Model) saveBody(diff bool) map[string]interface{} {
	var source map[string]interface{}
	if diff {
		source = m.modified
	} else {
		source = m.ToMap()
	}

	body := make(map[string]interface{}, len(source))
	for field, value := range source {
		if m.schema.excluded(field) {
			continue
		}

		body[field] = value
	}

	return body
}

func dependentSegment(parent interface{}) (string, error) {
	switch p := parent.(type) {
	case string:
		return strings.Trim(p, "/"), nil
	case *Model:
		return p.ResourceURI(), nil
	default:
		return "", ErrInvalidParent{Value: parent}
	}
}

func formatIdentifier(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; keep integral
		// identifiers free of a trailing ".0"
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
