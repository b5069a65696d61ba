// Package venue abstracts the brokerage execution endpoint. The gateway
// talks to exactly one venue through this interface; the concrete transport
// lives in the tws subpackage, with a paper implementation for dry runs and
// a mock for tests.
package venue

import (
	"context"

	"github.com/ibgate/ibgate/internal/domain"
)

// Ack is the venue's confirmation that an order was accepted and assigned
// an identifier.
type Ack struct {
	OrderID string
	Status  string
}

// Venue is the single outbound brokerage connection.
//
// Connect/Disconnect transition connection state and are expected to be
// serialized by the caller (the session manager). PlaceOrder blocks until
// the venue acknowledges or a bounded wait expires. Read-only queries are
// safe to run concurrently once connected.
type Venue interface {
	// Connect opens the session. A single attempt; no retry.
	Connect(ctx context.Context, host string, port int, clientID int) error

	// Disconnect closes the session. Safe to call when not connected.
	Disconnect() error

	// IsConnected reports the current connection state without mutating it.
	IsConnected() bool

	// PlaceOrder submits the order and waits for the venue acknowledgment.
	// Returns ErrSubmissionTimeout if no acknowledgment arrives in time and
	// ErrVenueRejected (wrapped with the reason) on a venue-side rejection.
	PlaceOrder(ctx context.Context, inst domain.Instrument, spec domain.OrderSpec) (*Ack, error)

	// Positions returns all holdings. An account with no holdings yields an
	// empty slice, not an error.
	Positions(ctx context.Context) ([]domain.Position, error)

	// AccountSummary returns the raw account-summary rows.
	AccountSummary(ctx context.Context) ([]domain.AccountValue, error)
}
