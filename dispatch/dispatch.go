package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tanglekit/tanglebridge/client"
	"github.com/tanglekit/tanglebridge/logging"
	"github.com/tanglekit/tanglebridge/operation"
	"github.com/tanglekit/tanglebridge/registry"
)

// Options configures a Dispatcher.
type Options struct {
	// Workers is the number of executor goroutines.
	Workers int
	// QueueSize is the task queue buffer. Submissions beyond it are handed
	// off without ever blocking the submitting caller.
	QueueSize int
	// OutcomeBufferSize is the host outcome queue buffer.
	OutcomeBufferSize int
	// Logger receives dispatcher diagnostics. Defaults to NoOp.
	Logger logging.Logger
	// Metrics, when set, registers prometheus collectors for task
	// throughput and latency.
	Metrics MetricsRegisterer
}

// Dispatcher runs submitted operations against registry-resolved client
// resources on a fixed worker pool and delivers every outcome exactly once
// on the host queue. Submit never blocks the caller; the single-threaded
// host drains Outcomes cooperatively.
type Dispatcher struct {
	reg     *registry.Registry
	logger  logging.Logger
	metrics *metricsSet

	workers   int
	tasks     chan task
	outcomes  chan Outcome
	startOnce sync.Once
	workerWG  sync.WaitGroup
	taskWG    sync.WaitGroup
	closeOnce sync.Once
}

// task pairs one operation with its target handle, captured by value at
// submission.
type task struct {
	id     TaskID
	handle registry.Handle
	op     operation.Operation
}

// New constructs a Dispatcher bound to an explicit registry. Option
// validation failures are fatal at construction; the worker pool itself is
// started lazily on first Submit and cannot fail afterwards.
func New(reg *registry.Registry, optFns ...func(o *Options)) (*Dispatcher, error) {
	if reg == nil {
		return nil, fmt.Errorf("dispatch: registry is required")
	}

	opts := Options{
		Workers:           8,
		QueueSize:         64,
		OutcomeBufferSize: 128,
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Workers < 1 {
		return nil, fmt.Errorf("dispatch: Workers must be at least 1, got %d", opts.Workers)
	}
	if opts.QueueSize < 0 || opts.OutcomeBufferSize < 0 {
		return nil, fmt.Errorf("dispatch: buffer sizes must not be negative")
	}

	d := &Dispatcher{
		reg:      reg,
		logger:   opts.Logger,
		workers:  opts.Workers,
		tasks:    make(chan task, opts.QueueSize),
		outcomes: make(chan Outcome, opts.OutcomeBufferSize),
	}
	if opts.Metrics != nil {
		m, err := newMetricsSet(opts.Metrics)
		if err != nil {
			return nil, fmt.Errorf("dispatch: register metrics: %w", err)
		}
		d.metrics = m
	}
	return d, nil
}

// Outcomes returns the host-owned queue. Every submitted task produces
// exactly one Outcome here; order across tasks is unspecified. The channel
// is closed by Close after the last outcome.
func (d *Dispatcher) Outcomes() <-chan Outcome {
	return d.outcomes
}

// Submit captures the handle and operation by value, schedules execution
// on the worker pool and returns immediately with the task's ID. It never
// blocks, fails or panics; any problem surfaces as the task's Outcome.
func (d *Dispatcher) Submit(h registry.Handle, op operation.Operation) TaskID {
	d.startOnce.Do(d.start)

	t := task{id: TaskID(uuid.NewString()), handle: h, op: op}
	d.taskWG.Add(1)
	if d.metrics != nil {
		d.metrics.submitted.Inc()
		d.metrics.inFlight.Inc()
	}
	d.logger.Debug("task submitted", "task_id", string(t.id), "handle", string(h), "kind", op.Kind().String())

	select {
	case d.tasks <- t:
	default:
		// Queue full: hand off from a goroutine so the host never blocks.
		go func() { d.tasks <- t }()
	}
	return t.id
}

// Close waits for all submitted tasks to deliver their outcome, stops the
// workers and closes the outcome channel. The host must keep draining
// Outcomes until it is closed; Submit must not be called concurrently with
// or after Close.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.startOnce.Do(d.start)
		d.taskWG.Wait()
		close(d.tasks)
		d.workerWG.Wait()
		close(d.outcomes)
	})
}

// start launches the worker pool. Guarded by startOnce so concurrent first
// submissions still yield a single pool.
func (d *Dispatcher) start() {
	d.workerWG.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go d.worker()
	}
	d.logger.Debug("dispatch workers started", "workers", d.workers)
}

func (d *Dispatcher) worker() {
	defer d.workerWG.Done()
	for t := range d.tasks {
		out := d.runTask(t)
		d.outcomes <- out
		d.taskWG.Done()
	}
}

// runTask executes one task end to end. The whole body sits inside the
// failure isolation boundary: panics anywhere in resolution, execution or
// encoding become FailureInternal outcomes.
func (d *Dispatcher) runTask(t task) (out Outcome) {
	start := time.Now()
	out = Outcome{TaskID: t.id, Handle: t.handle, Kind: t.op.Kind()}

	defer func() {
		if r := recover(); r != nil {
			out.Failure = internalFailure(r)
			out.Payload, out.Raw = "", nil
		}
		d.observe(out, time.Since(start))
	}()

	res, err := d.reg.Resolve(t.handle)
	if err != nil {
		out.Failure = classify(err)
		return out
	}

	var payload string
	var raw []byte
	run := func(c *client.Client) error {
		var execErr error
		payload, raw, execErr = d.execute(context.Background(), c, t.op)
		return execErr
	}

	if t.op.Access() == operation.AccessExclusive {
		err = res.Write(run)
	} else {
		err = res.Read(run)
	}
	if err != nil {
		out.Failure = classify(err)
		return out
	}

	out.Payload = payload
	out.Raw = raw
	return out
}

func (d *Dispatcher) observe(out Outcome, elapsed time.Duration) {
	if out.OK() {
		d.logger.Debug("task completed",
			"task_id", string(out.TaskID),
			"kind", out.Kind.String(),
			"duration_ms", elapsed.Milliseconds(),
		)
	} else {
		d.logger.Warn("task failed",
			"task_id", string(out.TaskID),
			"kind", out.Kind.String(),
			"failure", out.Failure.Kind.String(),
			"error", out.Failure.Message,
		)
	}
	if d.metrics != nil {
		d.metrics.inFlight.Dec()
		d.metrics.duration.Observe(elapsed.Seconds())
		if out.OK() {
			d.metrics.completed.Inc()
		} else {
			d.metrics.failed.WithLabelValues(out.Failure.Kind.String()).Inc()
		}
	}
}
