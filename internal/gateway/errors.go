package gateway

import "fmt"

// ValidationError reports missing required user input, caught before any
// request is sent.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// TransportError reports a non-2xx response from the backend.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// NetworkError reports a request that could not complete at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
