package venue

import "github.com/pkg/errors"

// Error taxonomy for session and submission failures. Everything a venue
// implementation reports is rooted in one of these so the service layer can
// map failures to a stable API contract without inspecting transport details.
var (
	// ErrNotConnected: an operation requiring a live session ran while
	// disconnected. Recoverable and reportable, never a fault.
	ErrNotConnected = errors.New("not connected to venue")

	// ErrConnectionFailure: transport-level failure while opening the session.
	ErrConnectionFailure = errors.New("venue connection failure")

	// ErrVenueRejected: the venue refused the order.
	ErrVenueRejected = errors.New("venue rejected order")

	// ErrSubmissionTimeout: no acknowledgment arrived within the bounded wait.
	ErrSubmissionTimeout = errors.New("order acknowledgment timed out")

	// ErrUpstreamQuery: positions/account-summary fetch failed mid-session.
	ErrUpstreamQuery = errors.New("venue query failed")
)
