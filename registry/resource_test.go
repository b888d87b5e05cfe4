package registry

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanglekit/tanglebridge/client"
)

// Readers on one resource run concurrently with each other.
func TestResource_ConcurrentReaders(t *testing.T) {
	const readers = 8

	res := NewResource(nil)
	var inside atomic.Int32
	var peak atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = res.Read(func(*client.Client) error {
				n := inside.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-release
				inside.Add(-1)
				return nil
			})
		}()
	}

	require.Eventually(t, func() bool {
		return inside.Load() == readers
	}, time.Second, time.Millisecond, "all readers must enter the resource together")

	close(release)
	wg.Wait()
	assert.Equal(t, int32(readers), peak.Load())
}

// A writer excludes readers for the duration of its critical section.
func TestResource_WriterExcludesReaders(t *testing.T) {
	res := NewResource(nil)
	writing := make(chan struct{})
	release := make(chan struct{})
	var writerDone atomic.Bool

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = res.Write(func(*client.Client) error {
			close(writing)
			<-release
			writerDone.Store(true)
			return nil
		})
	}()

	<-writing
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = res.Read(func(*client.Client) error {
			assert.True(t, writerDone.Load(), "reader must not enter while the writer holds the resource")
			return nil
		})
	}()

	// Give the reader a chance to (incorrectly) slip past the writer.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
}

// A panic inside a read section releases the lock on the way up, so the
// resource stays usable afterwards.
func TestResource_PanicReleasesLock(t *testing.T) {
	res := NewResource(nil)

	require.Panics(t, func() {
		_ = res.Read(func(*client.Client) error { panic("boom") })
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = res.Write(func(*client.Client) error { return nil })
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("resource lock was not released after panic")
	}
}
