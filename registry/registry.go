// Package registry maintains the mapping from opaque string handles to live
// client resources. The map lock and each resource's own lock are
// independent, so operations on distinct handles never contend with each
// other, and in-flight tasks keep their resolved resource alive after the
// handle is closed.
package registry

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/tanglekit/tanglebridge/client"
)

// Handle is an opaque identifier naming one registered client resource.
type Handle string

// HandleLength is the number of random alphanumeric characters in a handle.
// At 62^16 the collision probability is negligible for any realistic
// registry size.
const HandleLength = 16

const handleCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ErrUnknownHandle is returned by Resolve when no resource is registered
// under a handle, either because it never existed or was already closed.
var ErrUnknownHandle = fmt.Errorf("unknown client handle")

// Registry is a thread-safe handle table. Create one per composition root
// and pass it explicitly to the dispatcher; there is no package-level
// instance.
type Registry struct {
	mu        sync.RWMutex
	resources map[Handle]*Resource
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{resources: make(map[Handle]*Resource)}
}

// Open registers a client and returns its fresh handle.
func (r *Registry) Open(c *client.Client) Handle {
	res := &Resource{client: c}

	r.mu.Lock()
	defer r.mu.Unlock()
	h := newHandle()
	// Regenerate on the vanishingly unlikely collision.
	for _, exists := r.resources[h]; exists; _, exists = r.resources[h] {
		h = newHandle()
	}
	r.resources[h] = res
	return h
}

// Resolve returns the resource registered under h. A missing handle is a
// recoverable error, never a panic.
func (r *Registry) Resolve(h Handle) (*Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return res, nil
}

// Close removes the handle's entry and reports whether it was present.
// Tasks that already resolved the resource keep a valid reference until
// they finish; subsequent Resolve calls fail with ErrUnknownHandle.
func (r *Registry) Close(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.resources[h]
	delete(r.resources, h)
	return ok
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.resources)
}

// Clear removes every entry. Intended for composition-root teardown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources = make(map[Handle]*Resource)
}

// newHandle generates a fixed-length random alphanumeric handle.
func newHandle() Handle {
	out := make([]byte, 0, HandleLength)
	buf := make([]byte, HandleLength*2)
	for len(out) < HandleLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms; an error here
			// means the process has no usable entropy source at all.
			panic(fmt.Sprintf("registry: read random bytes: %v", err))
		}
		for _, b := range buf {
			// Rejection sampling keeps the distribution uniform over the
			// 62-character alphabet.
			if b >= 248 {
				continue
			}
			out = append(out, handleCharset[int(b)%len(handleCharset)])
			if len(out) == HandleLength {
				break
			}
		}
	}
	return Handle(out)
}
