// Package paper provides a simulated venue for dry runs: no TWS endpoint is
// required, orders fill immediately and positions accrue in memory.
package paper

import (
	"context"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ibgate/ibgate/internal/domain"
	"github.com/ibgate/ibgate/internal/venue"
)

var log = logrus.WithField("component", "paper_venue")

const paperAccount = "PAPER1"

// referencePrice is the fill price assumed for market orders, which have no
// price of their own in this simulation.
const referencePrice = 100.0

type holding struct {
	quantity  float64
	costBasis float64
}

// Venue simulates the brokerage endpoint. Every order is acknowledged with
// a sequential id; limit orders fill at their limit price, market orders at
// a fixed reference price.
type Venue struct {
	mu        sync.Mutex
	connected bool
	clientID  int
	nextID    int
	cash      decimal.Decimal
	holdings  map[string]*holding
}

// New creates a paper venue with the given starting cash balance.
func New(startingCash float64) *Venue {
	return &Venue{
		nextID:   1,
		cash:     decimal.NewFromFloat(startingCash),
		holdings: make(map[string]*holding),
	}
}

func (v *Venue) Connect(_ context.Context, host string, port int, clientID int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.connected = true
	v.clientID = clientID
	log.Infof("paper session open (pretending %s:%d clientID=%d)", host, port, clientID)
	return nil
}

func (v *Venue) Disconnect() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.connected = false
	return nil
}

func (v *Venue) IsConnected() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.connected
}

func (v *Venue) PlaceOrder(_ context.Context, inst domain.Instrument, spec domain.OrderSpec) (*venue.Ack, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.connected {
		return nil, venue.ErrNotConnected
	}

	price := referencePrice
	if spec.LimitPrice != nil {
		price = *spec.LimitPrice
	}

	h, ok := v.holdings[inst.Symbol]
	if !ok {
		h = &holding{}
		v.holdings[inst.Symbol] = h
	}

	qty := spec.Quantity
	if spec.Action == domain.ActionSell {
		if h.quantity < qty {
			return nil, venue.ErrVenueRejected
		}
		// Sells relieve cost basis at the average cost, not the fill price.
		avg := 0.0
		if h.quantity > 0 {
			avg = h.costBasis / h.quantity
		}
		h.quantity -= qty
		h.costBasis -= avg * qty
		v.cash = v.cash.Add(decimal.NewFromFloat(price * qty))
	} else {
		h.quantity += qty
		h.costBasis += price * qty
		v.cash = v.cash.Sub(decimal.NewFromFloat(price * qty))
	}
	if h.quantity == 0 {
		delete(v.holdings, inst.Symbol)
	}

	id := v.nextID
	v.nextID++
	log.Infof("paper fill: order %d %s %v %s @ %v", id, spec.Action, qty, inst.Symbol, price)
	return &venue.Ack{OrderID: itoa(id), Status: "Filled"}, nil
}

func (v *Venue) Positions(_ context.Context) ([]domain.Position, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.connected {
		return nil, venue.ErrNotConnected
	}
	out := make([]domain.Position, 0, len(v.holdings))
	for symbol, h := range v.holdings {
		avg := 0.0
		if h.quantity > 0 {
			avg = h.costBasis / h.quantity
		}
		out = append(out, domain.Position{
			Account:     paperAccount,
			Symbol:      symbol,
			Exchange:    domain.DefaultExchange,
			Currency:    domain.DefaultCurrency,
			Quantity:    h.quantity,
			AverageCost: avg,
		})
	}
	return out, nil
}

func (v *Venue) AccountSummary(_ context.Context) ([]domain.AccountValue, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.connected {
		return nil, venue.ErrNotConnected
	}
	gross := decimal.Zero
	for _, h := range v.holdings {
		gross = gross.Add(decimal.NewFromFloat(h.costBasis))
	}
	net := v.cash.Add(gross)
	return []domain.AccountValue{
		{Account: paperAccount, Tag: "NetLiquidation", Currency: domain.DefaultCurrency, Value: net.StringFixed(2)},
		{Account: paperAccount, Tag: "TotalCashValue", Currency: domain.DefaultCurrency, Value: v.cash.StringFixed(2)},
		{Account: paperAccount, Tag: "GrossPositionValue", Currency: domain.DefaultCurrency, Value: gross.StringFixed(2)},
		{Account: paperAccount, Tag: "AccountType", Currency: "", Value: "SIMULATED"},
	}, nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
