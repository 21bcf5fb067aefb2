// Package resource implements the entity side of the mapping
// layer: declarative schemas, dirty-tracking models, recursive
// hydration of embedded payloads and the finder operations that
// tie entities to connections.
package resource

import (
	"context"
	"net/http"

	"github.com/activerest/activerest/conn"
	"github.com/activerest/activerest/log"
	"github.com/activerest/activerest/registry"
)

// Params are the per-call query parameters and headers an
// operation merges on top of the connection defaults. A nil
// *Params is valid and adds nothing
type Params struct {
	Query   map[string]string
	Headers map[string]string
}

func (p *Params) query() map[string]string {
	if p == nil {
		return nil
	}

	return p.Query
}

func (p *Params) headers() map[string]string {
	if p == nil {
		return nil
	}

	return p.Headers
}

// Services are the services required by a Resource
type Services struct {
	Logger log.Logger
}

// Resource binds a schema to a connection registry and exposes
// the read operations of the resource type. Models it creates
// carry the same binding so they can save and destroy themselves
type Resource struct {
	schema *Schema
	reg    *registry.Registry
	logger log.Logger
}

// NewResource creates a resource for the provided schema
func NewResource(schema *Schema, reg *registry.Registry, services *Services) *Resource {
	return &Resource{
		schema: schema,
		reg:    reg,
		logger: services.Logger.ForClass("resource", schema.Name),
	}
}

// Schema returns the schema the resource was created from
func (r *Resource) Schema() *Schema {
	return r.schema
}

// NewModel creates a transient, empty model bound to the
// resource's registry
func (r *Resource) NewModel() *Model {
	return NewModel(r.schema, r.reg)
}

// Find fetches the resource with the provided identifier. The
// single-resource sub-structure is located through the schema's
// ParseFind hook before hydration. When the response is
// unsuccessful and the connection's throw policy lets it pass,
// the returned model is empty and the response is available
// through its LastResponse
func (r *Resource) Find(ctx context.Context, id interface{}, params *Params) (*Model, error) {
	return r.findInto(ctx, r.NewModel(), id, params)
}

// FindThrough is Find on a nested route: the parent, a literal
// path fragment or another model, is prepended to the resource
// path
func (r *Resource) FindThrough(ctx context.Context, parent interface{}, id interface{}, params *Params) (*Model, error) {
	m := r.NewModel()
	if err := m.Through(parent); err != nil {
		return nil, err
	}

	return r.findInto(ctx, m, id, params)
}

// All fetches the resource collection. The array sub-structure is
// located through the schema's ParseAll hook; each element
// hydrates one model
func (r *Resource) All(ctx context.Context, params *Params) (*Collection, error) {
	return r.allInto(ctx, r.NewModel(), params)
}

// AllThrough is All on a nested route
func (r *Resource) AllThrough(ctx context.Context, parent interface{}, params *Params) (*Collection, error) {
	m := r.NewModel()
	if err := m.Through(parent); err != nil {
		return nil, err
	}

	return r.allInto(ctx, m, params)
}

func (r *Resource) findInto(ctx context.Context, m *Model, id interface{}, params *Params) (*Model, error) {
	cn, err := m.connection()
	if err != nil {
		return nil, err
	}

	uri := m.collectionURI() + "/" + formatIdentifier(id)
	req, err := cn.BuildRequest(http.MethodGet, uri, params.query(), params.headers(), nil)
	if err != nil {
		return nil, err
	}

	res, err := cn.Send(ctx, req)
	m.lastResponse = res
	if err != nil {
		return nil, err
	}

	if !cn.Success(res) {
		r.logger.Debug(ctx, "find returned unsuccessful response", res, log.MapFields{
			"resource": r.schema.Name,
		})
		return m, nil
	}

	payload, err := cn.Decode(res)
	if err != nil {
		return nil, err
	}

	if err := m.Hydrate(r.schema.parseFind(payload)); err != nil {
		return nil, err
	}

	return m, nil
}

func (r *Resource) allInto(ctx context.Context, m *Model, params *Params) (*Collection, error) {
	cn, err := m.connection()
	if err != nil {
		return nil, err
	}

	req, err := cn.BuildRequest(http.MethodGet, m.collectionURI(), params.query(), params.headers(), nil)
	if err != nil {
		return nil, err
	}

	res, err := cn.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	if !cn.Success(res) {
		r.logger.Debug(ctx, "list returned unsuccessful response", res, log.MapFields{
			"resource": r.schema.Name,
		})
		collection := r.schema.collection(nil)
		collection.lastResponse = res
		return collection, nil
	}

	payload, err := cn.Decode(res)
	if err != nil {
		return nil, err
	}

	collection, err := r.buildCollection(payload, m.dependents, res)
	if err != nil {
		return nil, err
	}

	return collection, nil
}

func (r *Resource) buildCollection(payload interface{}, dependents []string, res *conn.Response) (*Collection, error) {
	located := r.schema.parseAll(payload)

	var items []*Model
	if located != nil {
		list, ok := located.([]interface{})
		if !ok {
			return nil, ErrInvalidPayload{Value: located}
		}

		items = make([]*Model, 0, len(list))
		for _, element := range list {
			m := r.NewModel()
			// elements of a nested listing keep the dependent
			// prefix so that saving them targets the same route
			for _, segment := range dependents {
				m.through(segment)
			}

			if err := m.Hydrate(element); err != nil {
				return nil, err
			}

			items = append(items, m)
		}
	}

	collection := r.schema.collection(items)
	collection.lastResponse = res
	return collection, nil
}
