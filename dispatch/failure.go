package dispatch

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/tanglekit/tanglebridge/client"
	"github.com/tanglekit/tanglebridge/registry"
)

// FailureKind classifies a task failure.
type FailureKind int

const (
	// FailureClient is a domain error reported by the client library
	// (network, validation, protocol-level rejection).
	FailureClient FailureKind = iota
	// FailureAddress is a malformed address encoding.
	FailureAddress
	// FailureUnknownHandle means the submitted handle names no registered
	// resource.
	FailureUnknownHandle
	// FailureInternal is a recovered panic anywhere inside the task body.
	FailureInternal
)

// String returns the canonical name of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureClient:
		return "client"
	case FailureAddress:
		return "address"
	case FailureUnknownHandle:
		return "unknownHandle"
	case FailureInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Failure is the single structured failure shape delivered to the host.
// Every error and every panic crossing the bridge boundary becomes one of
// these; nothing else escapes.
type Failure struct {
	Kind    FailureKind
	Message string
	// Trace carries a stack snapshot for internal failures; empty otherwise.
	Trace string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("task failure (%s): %s", f.Kind, f.Message)
}

// classify converts an error from resolution or execution into a Failure.
func classify(err error) *Failure {
	var addrErr *client.AddressError
	switch {
	case errors.Is(err, registry.ErrUnknownHandle):
		return &Failure{Kind: FailureUnknownHandle, Message: err.Error()}
	case errors.As(err, &addrErr):
		return &Failure{Kind: FailureAddress, Message: err.Error()}
	default:
		return &Failure{Kind: FailureClient, Message: err.Error()}
	}
}

// internalFailure converts a recovered panic value into a Failure carrying
// a best-effort description and stack trace.
func internalFailure(recovered any) *Failure {
	var msg string
	switch v := recovered.(type) {
	case string:
		msg = "internal error: " + v
	case error:
		msg = "internal error: " + v.Error()
	default:
		msg = fmt.Sprintf("internal error: %v", v)
	}
	return &Failure{
		Kind:    FailureInternal,
		Message: msg,
		Trace:   string(debug.Stack()),
	}
}
