package paper

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/ibgate/ibgate/internal/domain"
	"github.com/ibgate/ibgate/internal/venue"
)

func connected(t *testing.T, cash float64) *Venue {
	t.Helper()
	v := New(cash)
	if err := v.Connect(context.Background(), "127.0.0.1", 7497, 1); err != nil {
		t.Fatalf("connect: %v", err)
	}
	return v
}

func buy(t *testing.T, v *Venue, symbol string, qty, px float64) *venue.Ack {
	t.Helper()
	inst, err := domain.NewStock(symbol, "", "")
	if err != nil {
		t.Fatal(err)
	}
	spec, err := domain.NewLimitOrder(domain.ActionBuy, qty, px)
	if err != nil {
		t.Fatal(err)
	}
	ack, err := v.PlaceOrder(context.Background(), inst, spec)
	if err != nil {
		t.Fatalf("buy %s: %v", symbol, err)
	}
	return ack
}

func TestDisconnectedCallsFail(t *testing.T) {
	v := New(10_000)
	ctx := context.Background()
	inst, _ := domain.NewStock("AAPL", "", "")
	spec, _ := domain.NewMarketOrder(domain.ActionBuy, 1)

	if _, err := v.PlaceOrder(ctx, inst, spec); !errors.Is(err, venue.ErrNotConnected) {
		t.Errorf("place order: %v", err)
	}
	if _, err := v.Positions(ctx); !errors.Is(err, venue.ErrNotConnected) {
		t.Errorf("positions: %v", err)
	}
	if _, err := v.AccountSummary(ctx); !errors.Is(err, venue.ErrNotConnected) {
		t.Errorf("summary: %v", err)
	}
}

func TestFillAndPositions(t *testing.T) {
	v := connected(t, 10_000)

	ack := buy(t, v, "AAPL", 10, 150)
	if ack.Status != "Filled" {
		t.Errorf("status = %q", ack.Status)
	}
	ack2 := buy(t, v, "AAPL", 10, 170)
	if ack2.OrderID == ack.OrderID {
		t.Error("order ids not unique")
	}

	positions, err := v.Positions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(positions))
	}
	p := positions[0]
	if p.Symbol != "AAPL" || p.Quantity != 20 {
		t.Errorf("position = %+v", p)
	}
	// Two fills at 150 and 170 average to 160.
	if p.AverageCost != 160 {
		t.Errorf("avg cost = %v, want 160", p.AverageCost)
	}
}

func TestSellRequiresHolding(t *testing.T) {
	v := connected(t, 10_000)
	inst, _ := domain.NewStock("AAPL", "", "")
	sell, _ := domain.NewMarketOrder(domain.ActionSell, 5)

	if _, err := v.PlaceOrder(context.Background(), inst, sell); !errors.Is(err, venue.ErrVenueRejected) {
		t.Fatalf("short sell: %v, want ErrVenueRejected", err)
	}

	buy(t, v, "AAPL", 5, 100)
	if _, err := v.PlaceOrder(context.Background(), inst, sell); err != nil {
		t.Fatalf("covered sell: %v", err)
	}

	// Fully sold out: the position disappears.
	positions, err := v.Positions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 0 {
		t.Errorf("positions = %+v, want none", positions)
	}
}

func TestAccountSummaryBalances(t *testing.T) {
	v := connected(t, 10_000)
	buy(t, v, "AAPL", 10, 150)

	rows, err := v.AccountSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	byTag := map[string]string{}
	for _, r := range rows {
		byTag[r.Tag] = r.Value
	}
	if byTag["TotalCashValue"] != "8500.00" {
		t.Errorf("cash = %q", byTag["TotalCashValue"])
	}
	if byTag["GrossPositionValue"] != "1500.00" {
		t.Errorf("gross = %q", byTag["GrossPositionValue"])
	}
	if byTag["NetLiquidation"] != "10000.00" {
		t.Errorf("net = %q", byTag["NetLiquidation"])
	}
	if byTag["AccountType"] != "SIMULATED" {
		t.Errorf("account type = %q", byTag["AccountType"])
	}
}
