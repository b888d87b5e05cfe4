package dispatch

import (
	"github.com/tanglekit/tanglebridge/operation"
	"github.com/tanglekit/tanglebridge/registry"
)

// TaskID identifies one submitted task.
type TaskID string

// Outcome is the exactly-once result of a task: either a canonical text
// payload (or raw bytes for raw-message fetches) or a structured Failure,
// never both.
type Outcome struct {
	TaskID TaskID
	Handle registry.Handle
	Kind   operation.Kind

	// Payload is the canonical JSON encoding of the result on success,
	// except for raw-message fetches.
	Payload string
	// Raw carries the undecoded bytes of a raw-message fetch.
	Raw []byte

	Failure *Failure
}

// OK reports whether the task succeeded.
func (o Outcome) OK() bool { return o.Failure == nil }
