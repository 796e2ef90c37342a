package submission

import "fmt"

// Outcome is the closed set of submission results: Success, ValidationFailed,
// ServerError and NetworkError.
type Outcome interface {
	Kind() string
	isOutcome()
}

// Success means the service created the asset.
type Success struct {
	Payload []byte
}

// ValidationFailed carries the per-field messages of a 400 response.
type ValidationFailed struct {
	FieldErrors map[string][]string
	Message     string
}

// ServerError is any response that is neither 201 nor 400.
type ServerError struct {
	Status int
	Body   string
}

// NetworkError means no response was received.
type NetworkError struct {
	Err error
}

func (Success) Kind() string          { return "success" }
func (ValidationFailed) Kind() string { return "validation_failed" }
func (ServerError) Kind() string      { return "server_error" }
func (NetworkError) Kind() string     { return "network_error" }

func (Success) isOutcome()          {}
func (ValidationFailed) isOutcome() {}
func (ServerError) isOutcome()      {}
func (NetworkError) isOutcome()     {}

func (e ServerError) Error() string {
	return fmt.Sprintf("inventory service answered %d", e.Status)
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("inventory service unreachable: %v", e.Err)
}

func (e NetworkError) Unwrap() error {
	return e.Err
}
