// Package tanglebridge provides a high-level façade over the client
// registry and the dispatch worker pool. Most applications interact with
// this package by:
//  1. Creating a Bridge via New()
//  2. Opening one or more node clients (OpenClient), receiving a handle
//  3. Submitting operations against a handle (Submit) and draining the
//     outcome queue (Outcomes) from a single host loop
//
// The façade delegates execution to dispatch.Dispatcher while keeping setup
// and usage ergonomics concise. Handles stay valid for tasks already in
// flight even after CloseClient; new submissions against a closed handle
// yield an unknown-handle failure outcome rather than an error at the call
// site.
package tanglebridge

import (
	"fmt"

	"github.com/tanglekit/tanglebridge/client"
	"github.com/tanglekit/tanglebridge/dispatch"
	"github.com/tanglekit/tanglebridge/logging"
	"github.com/tanglekit/tanglebridge/operation"
	"github.com/tanglekit/tanglebridge/registry"
)

// Options configures the Bridge instance.
type Options struct {
	// Workers limits the number of operations executing simultaneously.
	Workers int

	// QueueSize sets the task channel buffer. Submissions beyond it are
	// still accepted without blocking the caller.
	QueueSize int

	// OutcomeBufferSize sets the outcome channel buffer. Larger buffers
	// reduce worker stalls when the host drains slowly.
	OutcomeBufferSize int

	// Metrics, when set, registers dispatcher collectors.
	Metrics dispatch.MetricsRegisterer

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Bridge is the high-level façade aggregating the registry and dispatcher.
type Bridge struct {
	opts       Options
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
}

// New creates a Bridge with optional overrides. Configuration problems are
// reported at construction; everything after that surfaces through the
// outcome queue.
func New(optFns ...func(o *Options)) (*Bridge, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	reg := registry.New()
	d, err := dispatch.New(reg, func(o *dispatch.Options) {
		if opts.Workers != 0 {
			o.Workers = opts.Workers
		}
		if opts.QueueSize != 0 {
			o.QueueSize = opts.QueueSize
		}
		if opts.OutcomeBufferSize != 0 {
			o.OutcomeBufferSize = opts.OutcomeBufferSize
		}
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})
	if err != nil {
		return nil, err
	}

	return &Bridge{opts: opts, registry: reg, dispatcher: d}, nil
}

// OpenClient constructs a node client from the given options, registers it
// and returns its handle. The handle is the only reference callers hold;
// the client itself never crosses the boundary.
func (b *Bridge) OpenClient(optFns ...func(o *client.Options)) (registry.Handle, error) {
	// The bridge logger is the default; explicit client options may still
	// override it.
	withLogger := append([]func(o *client.Options){func(o *client.Options) {
		o.Logger = b.opts.Logger
	}}, optFns...)
	c, err := client.New(withLogger...)
	if err != nil {
		return "", fmt.Errorf("open client: %w", err)
	}
	h := b.registry.Open(c)
	b.opts.Logger.Info("client registered", "handle", string(h))
	return h, nil
}

// CloseClient removes the handle from the registry. Tasks already holding
// the resource finish normally; later submissions against the handle
// produce unknown-handle failure outcomes.
func (b *Bridge) CloseClient(h registry.Handle) bool {
	ok := b.registry.Close(h)
	if ok {
		b.opts.Logger.Info("client removed", "handle", string(h))
	}
	return ok
}

// Submit schedules the operation against the handle and returns the task
// ID immediately. It never blocks or fails; the result arrives on Outcomes.
func (b *Bridge) Submit(h registry.Handle, op operation.Operation) dispatch.TaskID {
	return b.dispatcher.Submit(h, op)
}

// Outcomes returns the host-owned result queue. Every submitted task
// delivers exactly one outcome here.
func (b *Bridge) Outcomes() <-chan dispatch.Outcome {
	return b.dispatcher.Outcomes()
}

// Close waits for in-flight tasks, stops the workers and closes the
// outcome queue. Keep draining Outcomes until it is closed.
func (b *Bridge) Close() {
	b.dispatcher.Close()
	b.registry.Clear()
}
