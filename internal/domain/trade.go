package domain

import "time"

// TradeResult is the outcome of one submission attempt. It echoes the
// originating instrument and order fields so the caller can correlate the
// result without keeping its own copy.
type TradeResult struct {
	Success    bool      `json:"success"`
	OrderID    string    `json:"orderId,omitempty"`
	Message    string    `json:"message"`
	Symbol     string    `json:"symbol"`
	Action     string    `json:"action"`
	Quantity   float64   `json:"quantity"`
	OrderType  string    `json:"orderType"`
	LimitPrice *float64  `json:"limitPrice,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewTradeResult stamps a result for the given instrument/spec pair.
func NewTradeResult(inst Instrument, spec OrderSpec, success bool, orderID, message string) TradeResult {
	return TradeResult{
		Success:    success,
		OrderID:    orderID,
		Message:    message,
		Symbol:     inst.Symbol,
		Action:     string(spec.Action),
		Quantity:   spec.Quantity,
		OrderType:  string(spec.Kind),
		LimitPrice: spec.LimitPrice,
		Timestamp:  time.Now().UTC(),
	}
}
