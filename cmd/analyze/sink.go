package main

import (
	"fmt"

	"github.com/intrinio/option-analytics-go/chain"
)

// consoleSink is the simplest chain.ResultSink: it writes one line per
// row to stdout. Swapping in a database- or queue-backed sink only
// requires implementing chain.ResultSink elsewhere.
type consoleSink struct{}

func (consoleSink) Emit(row chain.ResultRow) error {
	fmt.Printf("%s long=%.2f short=%.2f cost=%s ev=%s loss=%s pop=%.4f breakeven=%.2f\n",
		row.Strategy, row.LongStrike, row.ShortStrike,
		row.CostBasis.StringFixed(2), row.ExpectedValue.StringFixed(2), row.ExpectedLoss.StringFixed(2),
		row.ProbabilityOfProfit, row.BreakEven)
	return nil
}
