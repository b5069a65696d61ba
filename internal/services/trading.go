// Package services composes the session manager and venue handle into the
// order-submission and portfolio-readback workflows behind the HTTP layer.
package services

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ibgate/ibgate/internal/domain"
	"github.com/ibgate/ibgate/internal/metrics"
	"github.com/ibgate/ibgate/internal/session"
	"github.com/ibgate/ibgate/internal/venue"
)

var log = logrus.WithField("component", "trading_service")

// TradingService submits orders through the live session and translates the
// venue's asynchronous acknowledgment into a synchronous TradeResult.
type TradingService struct {
	sessions *session.Manager
}

// NewTradingService creates a trading service bound to the session manager.
func NewTradingService(sessions *session.Manager) *TradingService {
	return &TradingService{sessions: sessions}
}

// Submit places one order. Failures never escape as errors: every outcome
// is a structured TradeResult, with Success=false carrying the reason.
// Validation failures and a disconnected session are rejected before any
// transport call.
func (s *TradingService) Submit(ctx context.Context, inst domain.Instrument, spec domain.OrderSpec) domain.TradeResult {
	v := s.sessions.Venue()

	if !v.IsConnected() {
		return record(domain.NewTradeResult(inst, spec, false, "",
			"Not connected to the brokerage endpoint. Connect first."))
	}

	// Specs built via the domain constructors already hold these invariants;
	// re-checking here keeps the no-transport-on-invalid-order guarantee for
	// any caller that assembled a spec by hand.
	if msg, ok := validate(spec); !ok {
		return record(domain.NewTradeResult(inst, spec, false, "", msg))
	}

	ack, err := v.PlaceOrder(ctx, inst, spec)
	if err != nil {
		return record(domain.NewTradeResult(inst, spec, false, "", submitFailureMessage(err)))
	}

	msg := fmt.Sprintf("Order to %s %v shares of %s placed successfully",
		spec.Action, spec.Quantity, inst.Symbol)
	log.Infof("order %s acknowledged: %s", ack.OrderID, ack.Status)
	return record(domain.NewTradeResult(inst, spec, true, ack.OrderID, msg))
}

func record(r domain.TradeResult) domain.TradeResult {
	if r.Success {
		metrics.OrdersSubmitted.Add(1)
	} else {
		metrics.OrdersFailed.Add(1)
	}
	return r
}

func validate(spec domain.OrderSpec) (string, bool) {
	if !spec.Action.Valid() {
		return fmt.Sprintf("Invalid order action %q", string(spec.Action)), false
	}
	if !spec.Kind.Valid() {
		return fmt.Sprintf("Invalid order type %q", string(spec.Kind)), false
	}
	if spec.Quantity <= 0 {
		return "Quantity must be positive", false
	}
	if spec.IsLimit() && (spec.LimitPrice == nil || *spec.LimitPrice <= 0) {
		return "Limit price required for limit orders", false
	}
	return "", true
}

func submitFailureMessage(err error) string {
	switch {
	case errors.Is(err, venue.ErrSubmissionTimeout):
		return "Order was sent but the venue did not acknowledge it in time"
	case errors.Is(err, venue.ErrVenueRejected):
		return fmt.Sprintf("Order rejected: %v", err)
	case errors.Is(err, venue.ErrNotConnected):
		return "Not connected to the brokerage endpoint. Connect first."
	default:
		return fmt.Sprintf("Order failed: %v", err)
	}
}
