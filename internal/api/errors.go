package api

import (
	"errors"
	"fmt"
)

// ConnectionError reports a transport failure: the backend could not be
// reached or the response body could not be read.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error (%s): %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// APIError reports a non-2xx status or an envelope with success=false.
// Error returns the server-provided message unchanged.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

// DataShapeError reports a response that does not have the expected shape.
type DataShapeError struct {
	Endpoint string
	Field    string
	Reason   string
}

func (e *DataShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("unexpected response from %s: %s", e.Endpoint, e.Reason)
	}
	return fmt.Sprintf("unexpected response from %s: %s %s", e.Endpoint, e.Field, e.Reason)
}

// IsConnection reports whether err is a ConnectionError.
func IsConnection(err error) bool {
	var target *ConnectionError
	return errors.As(err, &target)
}

// IsAPI reports whether err is an APIError.
func IsAPI(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

// IsDataShape reports whether err is a DataShapeError.
func IsDataShape(err error) bool {
	var target *DataShapeError
	return errors.As(err, &target)
}

// StatusCode returns the HTTP status carried by an APIError, or 0.
func StatusCode(err error) int {
	var target *APIError
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}
