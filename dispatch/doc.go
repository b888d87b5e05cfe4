// Package dispatch executes submitted operations against registered client
// resources on a worker pool and delivers each result exactly once as an
// Outcome on a single host-owned queue.
//
// Submission is strictly non-blocking and infallible: every problem,
// including unknown handles and panics inside execution, is reported as a
// structured Failure on the task's Outcome rather than raised at the
// caller. Read-only operations share a handle's resource concurrently;
// exclusive operations serialize against it.
package dispatch
