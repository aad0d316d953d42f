package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/pricing"
)

func sampleContract(strike float64) chain.OptionContract {
	return chain.OptionContract{
		Underlying: "XYZ",
		Expiry:     time.Date(2026, 9, 18, 0, 0, 0, 0, time.UTC),
		Strike:     strike,
		Type:       pricing.Call,
		Bid:        1.0,
		Ask:        1.2,
		Mark:       1.1,
		Multiplier: 100,
	}
}

func TestUpsertContractInsertsThenUpdates(t *testing.T) {
	c := NewMarketCache()
	c.UpsertContract(sampleContract(100))
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}

	updated := sampleContract(100)
	updated.Mark = 1.5
	c.UpsertContract(updated)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d after update, want 1 (no duplicate row)", c.Len())
	}
	if c.Row(0).Mark != 1.5 {
		t.Errorf("Row(0).Mark = %v, want 1.5", c.Row(0).Mark)
	}
}

func TestUpdateQuoteMutatesInPlace(t *testing.T) {
	c := NewMarketCache()
	contract := sampleContract(100)
	c.UpsertContract(contract)

	key := keyOf(contract)
	ok := c.UpdateQuote(key, 2.0, 2.2, 2.1, 2.1)
	if !ok {
		t.Fatal("UpdateQuote returned false for a known key")
	}
	if c.Row(0).Bid != 2.0 {
		t.Errorf("Bid = %v, want 2.0", c.Row(0).Bid)
	}

	unknown := keyOf(sampleContract(999))
	if c.UpdateQuote(unknown, 1, 1, 1, 1) {
		t.Error("UpdateQuote returned true for an unknown key")
	}
}

func TestSetGreekFiresCallback(t *testing.T) {
	c := NewMarketCache()
	var mu sync.Mutex
	var got Greek
	done := make(chan struct{})

	c.OnGreekUpdated(func(key ContractKey, g Greek) {
		mu.Lock()
		got = g
		mu.Unlock()
		close(done)
	})

	key := keyOf(sampleContract(100))
	g := NewGreek(0.25, 0.5, 0.02, -0.01, 0.1, 0.05, true)
	c.SetGreek(key, g)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnGreekUpdated callback never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if got.Delta != 0.5 {
		t.Errorf("callback Greek.Delta = %v, want 0.5", got.Delta)
	}

	stored, ok := c.Greek(key)
	if !ok || stored.Delta != 0.5 {
		t.Errorf("Greek(key) = %+v, ok=%v", stored, ok)
	}
}

func TestUpdateFrequencyDefaultsToQuoteUpdate(t *testing.T) {
	c := NewMarketCache()
	if f := c.UpdateFrequency("XYZ"); f != EveryOptionsQuoteUpdate {
		t.Errorf("default frequency = %v, want EveryOptionsQuoteUpdate", f)
	}
	c.SetUpdateFrequency("XYZ", EveryEquityQuoteUpdate|EveryRateCurveRefresh)
	f := c.UpdateFrequency("XYZ")
	if !f.Has(EveryEquityQuoteUpdate) || !f.Has(EveryRateCurveRefresh) {
		t.Errorf("frequency %v missing expected flags", f)
	}
}

func TestContractsForFiltersBySymbol(t *testing.T) {
	c := NewMarketCache()
	c.UpsertContract(sampleContract(95))
	c.UpsertContract(sampleContract(100))
	other := sampleContract(100)
	other.Underlying = "ABC"
	c.UpsertContract(other)

	rows := c.ContractsFor("XYZ")
	if len(rows) != 2 {
		t.Fatalf("ContractsFor(XYZ) returned %d rows, want 2", len(rows))
	}
}
