package domain

import (
	"github.com/pkg/errors"
)

// ErrInvalidOrder is returned when an order spec violates its construction
// invariants (non-positive quantity, missing/invalid limit price, unknown
// action or kind).
var ErrInvalidOrder = errors.New("invalid order")

// OrderAction is the trade direction.
type OrderAction string

const (
	ActionBuy  OrderAction = "BUY"
	ActionSell OrderAction = "SELL"
)

// Valid reports whether the action is one of BUY/SELL.
func (a OrderAction) Valid() bool {
	return a == ActionBuy || a == ActionSell
}

// OrderKind is the venue order type. The wire names follow the venue's
// convention (MKT/LMT).
type OrderKind string

const (
	KindMarket OrderKind = "MKT"
	KindLimit  OrderKind = "LMT"
)

// Valid reports whether the kind is one of MKT/LMT.
func (k OrderKind) Valid() bool {
	return k == KindMarket || k == KindLimit
}

// OrderSpec is a fully specified order awaiting submission.
//
// Invariant: LimitPrice is set (and positive) exactly when Kind is LMT.
// Use NewMarketOrder/NewLimitOrder; a zero OrderSpec is not valid.
type OrderSpec struct {
	Action     OrderAction `json:"action"`
	Kind       OrderKind   `json:"orderType"`
	Quantity   float64     `json:"quantity"`
	LimitPrice *float64    `json:"limitPrice,omitempty"`
}

// NewMarketOrder builds a market order spec.
func NewMarketOrder(action OrderAction, quantity float64) (OrderSpec, error) {
	if !action.Valid() {
		return OrderSpec{}, errors.Wrapf(ErrInvalidOrder, "unknown action %q", string(action))
	}
	if quantity <= 0 {
		return OrderSpec{}, errors.Wrapf(ErrInvalidOrder, "quantity must be positive, got %v", quantity)
	}
	return OrderSpec{Action: action, Kind: KindMarket, Quantity: quantity}, nil
}

// NewLimitOrder builds a limit order spec. The limit price is required and
// must be strictly positive.
func NewLimitOrder(action OrderAction, quantity float64, limitPrice float64) (OrderSpec, error) {
	spec, err := NewMarketOrder(action, quantity)
	if err != nil {
		return OrderSpec{}, err
	}
	if limitPrice <= 0 {
		return OrderSpec{}, errors.Wrapf(ErrInvalidOrder, "limit price must be positive, got %v", limitPrice)
	}
	spec.Kind = KindLimit
	spec.LimitPrice = &limitPrice
	return spec, nil
}

// IsLimit reports whether the spec is a limit order.
func (s OrderSpec) IsLimit() bool {
	return s.Kind == KindLimit
}
