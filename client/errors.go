package client

import "fmt"

var (
	// ErrNoHealthyNodes is returned when no configured node passed its last
	// health check and a request cannot be routed.
	ErrNoHealthyNodes = fmt.Errorf("no healthy nodes available")

	// ErrInsufficientFunds is returned when a transfer cannot be funded from
	// the seed's unspent outputs.
	ErrInsufficientFunds = fmt.Errorf("insufficient funds for transfer")
)

// APIError is a non-2xx response from a node endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("node api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("node api error %d: %s", e.StatusCode, e.Message)
}

// AddressError reports a malformed address encoding.
type AddressError struct {
	Address string
	Reason  string
}

// Error implements the error interface.
func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Address, e.Reason)
}
