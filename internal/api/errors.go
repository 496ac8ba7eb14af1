package api

import "fmt"

// ValidationError is a client-side precondition failure. No request is
// issued when one is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NetworkError is a transport failure: the backend never produced a
// response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "backend unreachable: " + e.Err.Error() }

func (e *NetworkError) Unwrap() error { return e.Err }

// BackendError is a response the backend did produce but that signals
// failure, either as a non-2xx status or as a structured error field.
// Message carries the backend's own wording when it supplied one.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
}
