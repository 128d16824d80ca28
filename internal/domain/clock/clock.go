// Package clock defines the trusted logical clock consumed by every mutating
// ledger operation. Records never sample the local wall clock directly; the
// current time is read once from a Source at the start of each operation so
// behavior stays deterministic under test.
package clock

import "context"

// Source returns the current logical time in milliseconds.
type Source interface {
	Now(ctx context.Context) uint64
}

// Fixed is a Source pinned to a settable instant. Intended for tests.
type Fixed struct {
	Millis uint64
}

// Now returns the pinned instant.
func (f *Fixed) Now(context.Context) uint64 {
	return f.Millis
}

// Set moves the pinned instant.
func (f *Fixed) Set(millis uint64) {
	f.Millis = millis
}
