package registry

import (
	"sync"

	"github.com/tanglekit/tanglebridge/client"
)

// Resource wraps one client with its own reader-writer lock. The lock is
// independent of the registry map lock: holding it never blocks operations
// on other handles or registry mutations.
type Resource struct {
	mu     sync.RWMutex
	client *client.Client
}

// NewResource wraps an existing client. Mainly useful in tests; Open does
// this for registered clients.
func NewResource(c *client.Client) *Resource {
	return &Resource{client: c}
}

// Read runs fn under shared access. Any number of Read calls may proceed
// together.
func (r *Resource) Read(fn func(c *client.Client) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.client)
}

// Write runs fn under exclusive access, serialized against all other Read
// and Write calls on this resource.
func (r *Resource) Write(fn func(c *client.Client) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.client)
}
