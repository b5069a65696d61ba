package domain

import (
	"errors"
	"testing"
)

func TestNewMarketOrder(t *testing.T) {
	spec, err := NewMarketOrder(ActionBuy, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Kind != KindMarket || spec.Quantity != 10 || spec.LimitPrice != nil {
		t.Fatalf("unexpected spec: %+v", spec)
	}
}

func TestNewMarketOrder_RejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []float64{0, -1, -0.5} {
		if _, err := NewMarketOrder(ActionBuy, qty); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("qty=%v: expected ErrInvalidOrder, got %v", qty, err)
		}
	}
}

func TestNewMarketOrder_RejectsUnknownAction(t *testing.T) {
	if _, err := NewMarketOrder("HOLD", 1); !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestNewLimitOrder(t *testing.T) {
	spec, err := NewLimitOrder(ActionSell, 5, 187.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spec.IsLimit() {
		t.Fatal("expected a limit order")
	}
	if spec.LimitPrice == nil || *spec.LimitPrice != 187.5 {
		t.Fatalf("unexpected limit price: %v", spec.LimitPrice)
	}
}

func TestNewLimitOrder_RejectsNonPositivePrice(t *testing.T) {
	for _, px := range []float64{0, -10} {
		if _, err := NewLimitOrder(ActionBuy, 1, px); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("px=%v: expected ErrInvalidOrder, got %v", px, err)
		}
	}
}

func TestNewStock_Defaults(t *testing.T) {
	inst, err := NewStock("aapl", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Symbol != "AAPL" {
		t.Fatalf("symbol not normalized: %q", inst.Symbol)
	}
	if inst.Exchange != DefaultExchange || inst.Currency != DefaultCurrency {
		t.Fatalf("defaults not applied: %+v", inst)
	}
}

func TestNewStock_RejectsBlankSymbol(t *testing.T) {
	for _, sym := range []string{"", "   "} {
		if _, err := NewStock(sym, "", ""); !errors.Is(err, ErrInvalidInstrument) {
			t.Fatalf("symbol=%q: expected ErrInvalidInstrument, got %v", sym, err)
		}
	}
}
