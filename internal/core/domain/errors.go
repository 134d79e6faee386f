package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a query with no usable text was submitted
	ErrEmptyQuery = errors.New("empty query")

	// ErrEmptyPayload indicates an empty audio or image payload was submitted
	ErrEmptyPayload = errors.New("empty payload")

	// ErrUnknownMethod indicates a search method outside the fixed set
	ErrUnknownMethod = errors.New("unknown search method")

	// ErrBackendUnavailable indicates the backend could not be reached
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMalformedResponse indicates the backend returned an undecodable body
	ErrMalformedResponse = errors.New("malformed backend response")
)
