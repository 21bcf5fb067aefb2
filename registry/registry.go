// Package registry maps connection names to configured
// connections. The registry is an explicit object injected where
// it is needed instead of hidden package-global state; an
// application typically creates one and shares it between its
// resources.
package registry

import (
	"fmt"
	"sync"

	"github.com/activerest/activerest/conn"
	"github.com/activerest/activerest/errors"
	"github.com/activerest/activerest/log"
)

// DefaultName is the connection name resources use when their
// schema does not pick one explicitly
const DefaultName = "default"

// ErrConnectionNotFound reports a lookup for a name that was
// never registered. It is a programmer or configuration error
// and fails fast
type ErrConnectionNotFound struct {
	Name string
}

// Error is the implementation of go's error interface for ErrConnectionNotFound
func (e ErrConnectionNotFound) Error() string {
	return fmt.Sprintf("[registry] no connection registered with name %q", e.Name)
}

// ErrorCode is the implementation of errors.Err for ErrConnectionNotFound
func (e ErrConnectionNotFound) ErrorCode() errors.ErrorCode {
	return errors.ErrConnectionNotFound
}

// Log implementation of log.Loggable
func (e ErrConnectionNotFound) Log(fields log.Fields) {
	fields.Add("connection", e.Name)
	fields.Add("errorCode", errors.ErrConnectionNotFound.Code())
}

// Registry is a named mapping of connections. Safe for concurrent
// use
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*conn.Connection
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		conns: make(map[string]*conn.Connection),
	}
}

// Add registers a connection under a name. Adding the same name
// twice overwrites the previous connection
func (r *Registry) Add(name string, connection *conn.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[name] = connection
}

// Get retrieves the connection registered under name, failing
// with ErrConnectionNotFound when there is none
func (r *Registry) Get(name string) (*conn.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connection, ok := r.conns[name]
	if !ok {
		return nil, ErrConnectionNotFound{Name: name}
	}

	return connection, nil
}

// Names returns the names of the registered connections, in no
// particular order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.conns))
	for name := range r.conns {
		names = append(names, name)
	}

	return names
}
