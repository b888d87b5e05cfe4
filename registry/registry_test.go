package registry

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanglekit/tanglebridge/client"
)

func newTestClient(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.New(func(o *client.Options) {
		o.Nodes = []string{"http://localhost:14265"}
	})
	require.NoError(t, err)
	return c
}

func TestRegistry_OpenResolveClose(t *testing.T) {
	reg := New()
	c := newTestClient(t)

	h := reg.Open(c)
	assert.Len(t, string(h), HandleLength)
	assert.Equal(t, 1, reg.Len())

	res, err := reg.Resolve(h)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, reg.Close(h))
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Close(h), "second close must report absence")

	_, err = reg.Resolve(h)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestRegistry_UnknownHandleError(t *testing.T) {
	reg := New()

	_, err := reg.Resolve(Handle("nosuchhandle0000"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownHandle)
	assert.Contains(t, err.Error(), "nosuchhandle0000")
}

func TestRegistry_HandleFormat(t *testing.T) {
	reg := New()
	c := newTestClient(t)
	alnum := regexp.MustCompile(`^[0-9A-Za-z]+$`)

	for i := 0; i < 100; i++ {
		h := reg.Open(c)
		require.Len(t, string(h), HandleLength)
		require.True(t, alnum.MatchString(string(h)), "handle %q must be alphanumeric", h)
	}
}

func TestRegistry_ConcurrentOpenUniqueness(t *testing.T) {
	const openers = 100
	const perOpener = 100 // 10k handles in total

	reg := New()
	c := newTestClient(t)

	var wg sync.WaitGroup
	handles := make(chan Handle, openers*perOpener)
	for i := 0; i < openers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perOpener; j++ {
				handles <- reg.Open(c)
			}
		}()
	}
	wg.Wait()
	close(handles)

	seen := make(map[Handle]struct{}, openers*perOpener)
	for h := range handles {
		_, dup := seen[h]
		require.False(t, dup, "handle %q issued twice", h)
		seen[h] = struct{}{}
	}
	assert.Len(t, seen, openers*perOpener)
	assert.Equal(t, openers*perOpener, reg.Len())
}

// A resolved resource stays usable after its handle is removed from the
// registry; removal only stops new resolutions.
func TestRegistry_ResourceOutlivesRemoval(t *testing.T) {
	reg := New()
	c := newTestClient(t)

	h := reg.Open(c)
	res, err := reg.Resolve(h)
	require.NoError(t, err)

	require.True(t, reg.Close(h))

	err = res.Read(func(got *client.Client) error {
		assert.Same(t, c, got)
		return nil
	})
	require.NoError(t, err)
}

func TestRegistry_Clear(t *testing.T) {
	reg := New()
	c := newTestClient(t)

	for i := 0; i < 5; i++ {
		reg.Open(c)
	}
	require.Equal(t, 5, reg.Len())

	reg.Clear()
	assert.Equal(t, 0, reg.Len())
}

func TestResource_ReadPropagatesError(t *testing.T) {
	res := NewResource(nil)
	sentinel := errors.New("boom")

	err := res.Read(func(*client.Client) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}
