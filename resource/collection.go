package resource

import (
	"encoding/json"

	"github.com/activerest/activerest/conn"
)

// Collection is a homogeneous container of hydrated models, built
// by list operations and by embedded many-relations
type Collection struct {
	Items []*Model

	lastResponse *conn.Response
}

// NewCollection creates a collection over the provided items. Nil
// yields an empty collection
func NewCollection(items []*Model) *Collection {
	if items == nil {
		items = []*Model{}
	}

	return &Collection{Items: items}
}

// Len returns the number of models in the collection
func (c *Collection) Len() int {
	return len(c.Items)
}

// At returns the model at index i
func (c *Collection) At(i int) *Model {
	return c.Items[i]
}

// First returns the first model of the collection, or nil when it
// is empty
func (c *Collection) First() *Model {
	if len(c.Items) == 0 {
		return nil
	}

	return c.Items[0]
}

// MarshalJSON serializes the items alone, so embedded
// many-relations encode back to the array they were hydrated from
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items)
}

// Each invokes fn for every model in order
func (c *Collection) Each(fn func(m *Model)) {
	for _, item := range c.Items {
		fn(item)
	}
}

// LastResponse returns the response the collection was built
// from, or nil for collections that never crossed the transport,
// such as embedded many-relations
func (c *Collection) LastResponse() *conn.Response {
	return c.lastResponse
}
