// Package storage defines the store interfaces and the sentinel errors
// every backend maps its driver failures onto. Stores are append-only:
// a key is written once and never updated.
package storage

import "errors"

var (
	// ErrNotFound is returned when no record matches the requested key.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned on an insert whose key already
	// exists; re-running an identical sweep is expected to hit it.
	ErrDuplicateKey = errors.New("duplicate key: append-only store rejects updates")

	// ErrInvalidInput is returned when input validation fails before
	// any backend is touched.
	ErrInvalidInput = errors.New("invalid input")
)
