package compat

import "errors"

// Failure kinds of the external path. Score recovers from all of them by
// falling back, and logs which one it hit.
var (
	// ErrBackendUnavailable means no backend credential is configured.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrBackendRequestFailed covers transport errors and non-2xx responses.
	ErrBackendRequestFailed = errors.New("backend request failed")
	// ErrBackendResponseMalformed covers non-JSON text and missing or
	// out-of-range fields.
	ErrBackendResponseMalformed = errors.New("backend response malformed")
)
