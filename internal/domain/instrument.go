package domain

import (
	"strings"

	"github.com/pkg/errors"
)

// Instrument routing defaults. SMART lets the venue pick the exchange.
const (
	DefaultExchange = "SMART"
	DefaultCurrency = "USD"
)

// ErrInvalidInstrument is returned when an instrument cannot be built
// from the given fields.
var ErrInvalidInstrument = errors.New("invalid instrument")

// Instrument identifies a tradable symbol plus venue routing metadata.
// Immutable once built; it has no identity beyond its field values.
type Instrument struct {
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// NewStock builds a stock instrument. Empty exchange/currency fall back to
// SMART routing in USD. A blank symbol is rejected rather than deferred to
// the venue's own validation.
func NewStock(symbol, exchange, currency string) (Instrument, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Instrument{}, errors.Wrap(ErrInvalidInstrument, "symbol is required")
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Instrument{Symbol: symbol, Exchange: exchange, Currency: currency}, nil
}
