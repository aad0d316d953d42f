// Package cache implements an in-memory, concurrency-safe market
// cache: the chain.ChainTable read side, plus a mutation API a feed
// uses to push quote updates and a calculator's Greek stage uses to
// publish results back. Adapted from composite/data_cache.go,
// composite/security_data.go and composite/options_contract_data.go —
// same sync.RWMutex-guarded map-of-maps shape and
// Set...WithCallback idiom, re-themed from the reference SDK's trade/
// quote/candlestick surface to this engine's contract+Greek surface.
package cache

import (
	"sync"
	"time"

	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/pricing"
)

// OnContractUpdated fires after a contract's quote is inserted or
// changed.
type OnContractUpdated func(symbol string, contract chain.OptionContract)

// OnGreekUpdated fires after a contract's cached Greek bundle changes.
type OnGreekUpdated func(key ContractKey, greek Greek)

// ContractKey identifies one option contract row.
type ContractKey struct {
	Underlying string
	Expiry     time.Time
	Strike     float64
	Type       pricing.OptionType
}

func keyOf(c chain.OptionContract) ContractKey {
	return ContractKey{Underlying: c.Underlying, Expiry: c.Expiry, Strike: c.Strike, Type: c.Type}
}

// MarketCache holds the current option chain and per-contract Greeks
// for every tracked underlying. It implements chain.ChainTable
// directly; store and feed supply the other C7 contracts.
type MarketCache struct {
	mu        sync.RWMutex
	rows      []chain.OptionContract
	index     map[ContractKey]int
	greeks    map[ContractKey]Greek
	freq      map[string]GreekUpdateFrequency
	underSpot map[string]float64

	onContractUpdated OnContractUpdated
	onGreekUpdated    OnGreekUpdated
}

// NewMarketCache constructs an empty cache.
func NewMarketCache() *MarketCache {
	return &MarketCache{
		index:     make(map[ContractKey]int),
		greeks:    make(map[ContractKey]Greek),
		freq:      make(map[string]GreekUpdateFrequency),
		underSpot: make(map[string]float64),
	}
}

// OnContractUpdated registers the callback fired by UpsertContract.
func (m *MarketCache) OnContractUpdated(cb OnContractUpdated) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onContractUpdated = cb
}

// OnGreekUpdated registers the callback fired by SetGreek.
func (m *MarketCache) OnGreekUpdated(cb OnGreekUpdated) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onGreekUpdated = cb
}

// Len implements chain.ChainTable.
func (m *MarketCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Row implements chain.ChainTable.
func (m *MarketCache) Row(i int) chain.OptionContract {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rows[i]
}

// UpsertContract inserts a new contract row or overwrites an existing
// one addressed by (underlying, expiry, strike, type), then fires
// OnContractUpdated — the reference SDK's Set*WithCallback shape,
// collapsed to one path since a chain row has no trade/quote/refresh
// split.
func (m *MarketCache) UpsertContract(c chain.OptionContract) {
	key := keyOf(c)

	m.mu.Lock()
	if i, exists := m.index[key]; exists {
		m.rows[i] = c
	} else {
		m.index[key] = len(m.rows)
		m.rows = append(m.rows, c)
	}
	cb := m.onContractUpdated
	m.mu.Unlock()

	if cb != nil {
		go func() {
			defer func() { recover() }()
			cb(c.Underlying, c)
		}()
	}
}

// UpdateQuote mutates the bid/ask/last/mark of an already-tracked
// contract in place; it is a no-op if the contract was never upserted.
func (m *MarketCache) UpdateQuote(key ContractKey, bid, ask, last, mark float64) bool {
	m.mu.Lock()
	i, exists := m.index[key]
	if !exists {
		m.mu.Unlock()
		return false
	}
	m.rows[i].Bid = bid
	m.rows[i].Ask = ask
	m.rows[i].Last = last
	m.rows[i].Mark = mark
	c := m.rows[i]
	cb := m.onContractUpdated
	m.mu.Unlock()

	if cb != nil {
		go func() {
			defer func() { recover() }()
			cb(c.Underlying, c)
		}()
	}
	return true
}

// SetUnderlyingSpot records the latest spot print for symbol, read by
// a calculator wired directly against this cache instead of a static
// MarketContext.
func (m *MarketCache) SetUnderlyingSpot(symbol string, spot float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.underSpot[symbol] = spot
}

// UnderlyingSpot returns the last recorded spot for symbol.
func (m *MarketCache) UnderlyingSpot(symbol string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spot, ok := m.underSpot[symbol]
	return spot, ok
}

// Greek returns the cached Greek bundle for key, if present.
func (m *MarketCache) Greek(key ContractKey) (Greek, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.greeks[key]
	return g, ok
}

// SetGreek stores a freshly computed Greek bundle and fires
// OnGreekUpdated.
func (m *MarketCache) SetGreek(key ContractKey, g Greek) {
	m.mu.Lock()
	m.greeks[key] = g
	cb := m.onGreekUpdated
	m.mu.Unlock()

	if cb != nil {
		go func() {
			defer func() { recover() }()
			cb(key, g)
		}()
	}
}

// UpdateFrequency returns the recompute-trigger mask for symbol,
// defaulting to EveryOptionsQuoteUpdate when unset.
func (m *MarketCache) UpdateFrequency(symbol string) GreekUpdateFrequency {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.freq[symbol]; ok {
		return f
	}
	return EveryOptionsQuoteUpdate
}

// SetUpdateFrequency sets the recompute-trigger mask for symbol.
func (m *MarketCache) SetUpdateFrequency(symbol string, f GreekUpdateFrequency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.freq[symbol] = f
}

// ContractsFor returns a snapshot of every row for symbol, used by a
// feed or calculator that wants to scope work per-underlying.
func (m *MarketCache) ContractsFor(symbol string) []chain.OptionContract {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []chain.OptionContract
	for _, row := range m.rows {
		if row.Underlying == symbol {
			out = append(out, row)
		}
	}
	return out
}
