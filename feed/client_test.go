package feed

import (
	"encoding/json"
	"testing"

	"github.com/intrinio/option-analytics-go/cache"
	"github.com/intrinio/option-analytics-go/pricing"
)

func TestApplyUpsertsOptionContract(t *testing.T) {
	mc := cache.NewMarketCache()
	c := New(Config{ApiKey: "k", WSUrl: "ws://example"}, mc, 1)

	msg := QuoteMessage{
		Underlying: "XYZ", Expiry: "2026-09-18", Strike: 100, Type: "call",
		Bid: 1.0, Ask: 1.2, Mark: 1.1, Multiplier: 100, DaysToExpiry: 30,
	}
	data, _ := json.Marshal(msg)
	c.apply(data)

	if mc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", mc.Len())
	}
	row := mc.Row(0)
	if row.Underlying != "XYZ" || row.Strike != 100 || row.Type != pricing.Call {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestApplyUpdatesUnderlyingSpot(t *testing.T) {
	mc := cache.NewMarketCache()
	c := New(Config{ApiKey: "k", WSUrl: "ws://example"}, mc, 1)

	msg := QuoteMessage{Underlying: "XYZ", Last: 123.45, EquitySpot: true}
	data, _ := json.Marshal(msg)
	c.apply(data)

	spot, ok := mc.UnderlyingSpot("XYZ")
	if !ok || spot != 123.45 {
		t.Errorf("UnderlyingSpot = %v, %v; want 123.45, true", spot, ok)
	}
}

func TestApplyIgnoresMalformedMessage(t *testing.T) {
	mc := cache.NewMarketCache()
	c := New(Config{ApiKey: "k", WSUrl: "ws://example"}, mc, 1)
	c.apply([]byte("not json"))
	if mc.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after malformed message", mc.Len())
	}
}

func TestApplyIgnoresBadExpiry(t *testing.T) {
	mc := cache.NewMarketCache()
	c := New(Config{ApiKey: "k", WSUrl: "ws://example"}, mc, 1)
	msg := QuoteMessage{Underlying: "XYZ", Expiry: "not-a-date", Strike: 100, Type: "call"}
	data, _ := json.Marshal(msg)
	c.apply(data)
	if mc.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after bad expiry", mc.Len())
	}
}
