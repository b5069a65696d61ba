package server

import (
	"github.com/ibgate/ibgate/internal/domain"
)

// TradeRequest is the single validated trade schema. Field invariants
// (quantity > 0, limit price present and positive for LMT) are enforced by
// the domain constructors, not re-implemented per handler.
type TradeRequest struct {
	Symbol     string   `json:"symbol"`
	Action     string   `json:"action"`    // BUY or SELL
	Quantity   float64  `json:"quantity"`
	OrderType  string   `json:"orderType"` // MKT or LMT
	LimitPrice *float64 `json:"limitPrice,omitempty"`
	Exchange   string   `json:"exchange"`
	Currency   string   `json:"currency"`
}

// Build converts the request into validated domain objects.
func (r TradeRequest) Build() (domain.Instrument, domain.OrderSpec, error) {
	inst, err := domain.NewStock(r.Symbol, r.Exchange, r.Currency)
	if err != nil {
		return domain.Instrument{}, domain.OrderSpec{}, err
	}

	action := domain.OrderAction(r.Action)
	switch domain.OrderKind(r.OrderType) {
	case domain.KindMarket:
		spec, err := domain.NewMarketOrder(action, r.Quantity)
		return inst, spec, err
	case domain.KindLimit:
		if r.LimitPrice == nil {
			return inst, domain.OrderSpec{}, domain.ErrInvalidOrder
		}
		spec, err := domain.NewLimitOrder(action, r.Quantity, *r.LimitPrice)
		return inst, spec, err
	default:
		return inst, domain.OrderSpec{}, domain.ErrInvalidOrder
	}
}

// failure echoes the request fields into a failed TradeResult so validation
// rejections carry the same shape as submission outcomes.
func (r TradeRequest) failure(message string) domain.TradeResult {
	inst := domain.Instrument{Symbol: r.Symbol, Exchange: r.Exchange, Currency: r.Currency}
	spec := domain.OrderSpec{
		Action:     domain.OrderAction(r.Action),
		Kind:       domain.OrderKind(r.OrderType),
		Quantity:   r.Quantity,
		LimitPrice: r.LimitPrice,
	}
	return domain.NewTradeResult(inst, spec, false, "", message)
}
