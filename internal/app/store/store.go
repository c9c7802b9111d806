// internal/app/store/store.go
//
// Package store holds the error contract shared by the per-collection
// store adapters. Three outcomes are distinguishable on every operation:
// an invalid record (Put returns false, nil), a missing record
// (ErrNotFound), and an unavailable store (any other non-nil error, which
// propagates untouched).
package store

import "errors"

// ErrNotFound reports the conceptual absence of a single record. Callers
// match it with errors.Is; the command layer always catches it and turns
// it into a user-facing message.
var ErrNotFound = errors.New("record not found")
