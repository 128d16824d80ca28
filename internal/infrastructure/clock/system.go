// Package clock provides the system adapter for the ledger's trusted clock
// input. Production deployments point this at the substrate's clock oracle;
// the default adapter reads the host's wall clock once per operation.
package clock

import (
	"context"
	"time"
)

// SystemSource reads the host clock in milliseconds.
type SystemSource struct{}

// NewSystemSource returns the host-clock adapter.
func NewSystemSource() *SystemSource {
	return &SystemSource{}
}

// Now implements clock.Source.
func (*SystemSource) Now(context.Context) uint64 {
	return uint64(time.Now().UnixMilli())
}
