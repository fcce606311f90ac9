// Package common defines shared sentinel errors used across the fileport
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authorization errors (requester is not the owner and the resource
	// is not public).
	ErrDenied = errors.New("access denied")

	// Media errors (streaming requested for a non-media file).
	ErrNotStreamable = errors.New("not streamable")

	// Infrastructure errors.
	ErrStorageUnavailable     = errors.New("object storage unavailable")
	ErrPersistenceUnavailable = errors.New("database unavailable")

	// Validation errors (oversize file, malformed identifier, bad input).
	ErrInvalid = errors.New("invalid input")
)
