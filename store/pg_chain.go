// Package store implements the three read-side C7 contracts
// (chain.ChainTable, chain.RateCurve, chain.DividendSchedule) against
// PostgreSQL via database/sql and lib/pq. No pack example wires
// lib/pq against a domain this close to option chains, so the query
// shapes here follow the chain.ChainTable contract directly rather
// than a specific teacher file (see DESIGN.md).
package store

import (
	"database/sql"
	"sort"

	_ "github.com/lib/pq"

	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/pricing"
)

// PgChainTable is a chain.ChainTable backed by a snapshot query
// against the options_chain table. Rows are loaded once at
// construction (or on demand via Refresh) rather than per-Row, since
// a chain table is read many times in one Calculator.Analyze pass.
type PgChainTable struct {
	db   *sql.DB
	rows []chain.OptionContract
}

// Open opens a lib/pq handle for dataSourceName (database/sql connects
// lazily, on first use) and returns a handle usable by
// NewPgChainTable, NewPgRateCurve, and NewPgDividendSchedule.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open("postgres", dataSourceName)
}

// NewPgChainTable loads every row of the options_chain table for
// symbol into memory.
func NewPgChainTable(db *sql.DB, symbol string) (*PgChainTable, error) {
	t := &PgChainTable{db: db}
	if err := t.Refresh(symbol); err != nil {
		return nil, err
	}
	return t, nil
}

// Refresh reloads the snapshot for symbol.
func (t *PgChainTable) Refresh(symbol string) error {
	const q = `
		SELECT underlying, expiry, strike, option_type, bid, ask, last, mark,
		       bid_size, ask_size, style, multiplier, days_to_expiry
		FROM options_chain
		WHERE underlying = $1
		ORDER BY expiry, strike, option_type`

	rows, err := t.db.Query(q, symbol)
	if err != nil {
		return err
	}
	defer rows.Close()

	var loaded []chain.OptionContract
	for rows.Next() {
		var c chain.OptionContract
		var optionType, style string
		if err := rows.Scan(&c.Underlying, &c.Expiry, &c.Strike, &optionType,
			&c.Bid, &c.Ask, &c.Last, &c.Mark, &c.BidSize, &c.AskSize,
			&style, &c.Multiplier, &c.DaysToExpiry); err != nil {
			return err
		}
		if optionType == "put" {
			c.Type = pricing.Put
		} else {
			c.Type = pricing.Call
		}
		if style == "american" {
			c.Style = chain.American
		} else {
			c.Style = chain.European
		}
		loaded = append(loaded, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	t.rows = loaded
	return nil
}

// Len implements chain.ChainTable.
func (t *PgChainTable) Len() int { return len(t.rows) }

// Row implements chain.ChainTable.
func (t *PgChainTable) Row(i int) chain.OptionContract { return t.rows[i] }

// PgRateCurve implements chain.RateCurve over a tenors table, linearly
// interpolating between the two bracketing sampled tenors.
type PgRateCurve struct {
	tenors []float64
	rates  []float64
}

// NewPgRateCurve loads the full rate_curve table, sorted ascending by
// term.
func NewPgRateCurve(db *sql.DB) (*PgRateCurve, error) {
	rows, err := db.Query(`SELECT term_years, rate FROM rate_curve ORDER BY term_years`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	curve := &PgRateCurve{}
	for rows.Next() {
		var term, rate float64
		if err := rows.Scan(&term, &rate); err != nil {
			return nil, err
		}
		curve.tenors = append(curve.tenors, term)
		curve.rates = append(curve.rates, rate)
	}
	return curve, rows.Err()
}

// Rate implements chain.RateCurve with linear interpolation across
// stored tenors; out-of-range terms clamp to the nearest endpoint.
func (c *PgRateCurve) Rate(termYears float64) (float64, bool) {
	if len(c.tenors) == 0 {
		return 0, false
	}
	if termYears <= c.tenors[0] {
		return c.rates[0], true
	}
	if termYears >= c.tenors[len(c.tenors)-1] {
		return c.rates[len(c.rates)-1], true
	}
	i := sort.SearchFloat64s(c.tenors, termYears)
	t0, t1 := c.tenors[i-1], c.tenors[i]
	r0, r1 := c.rates[i-1], c.rates[i]
	frac := (termYears - t0) / (t1 - t0)
	return r0 + frac*(r1-r0), true
}

// PgDividendSchedule implements chain.DividendSchedule against a
// dividends table (discrete schedule) and a dividend_yields table
// (continuous fallback).
type PgDividendSchedule struct {
	db *sql.DB
}

// NewPgDividendSchedule wraps db.
func NewPgDividendSchedule(db *sql.DB) *PgDividendSchedule {
	return &PgDividendSchedule{db: db}
}

// Schedule implements chain.DividendSchedule's discrete lookup.
func (d *PgDividendSchedule) Schedule(symbol string) ([]chain.Dividend, bool) {
	rows, err := d.db.Query(
		`SELECT time_years, amount FROM dividends WHERE symbol = $1 ORDER BY time_years`, symbol)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var schedule []chain.Dividend
	for rows.Next() {
		var div chain.Dividend
		if err := rows.Scan(&div.Time, &div.Amount); err != nil {
			return nil, false
		}
		schedule = append(schedule, div)
	}
	if err := rows.Err(); err != nil || len(schedule) == 0 {
		return nil, false
	}
	return schedule, true
}

// Yield implements chain.DividendSchedule's continuous fallback.
func (d *PgDividendSchedule) Yield(symbol string) (float64, bool) {
	var q float64
	err := d.db.QueryRow(`SELECT yield FROM dividend_yields WHERE symbol = $1`, symbol).Scan(&q)
	if err != nil {
		return 0, false
	}
	return q, true
}
