package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/intrinio/option-analytics-go/cache"
	"github.com/intrinio/option-analytics-go/calculator"
	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/feed"
	"github.com/intrinio/option-analytics-go/metrics"
)

var (
	feedConfigPath string
	warmup         time.Duration
	liveStrategy   string
)

func init() {
	liveCmd.Flags().StringVar(&feedConfigPath, "feed-config", "feed.json", "path to the feed's JSON config file")
	liveCmd.Flags().DurationVar(&warmup, "warmup", 5*time.Second, "how long to collect quotes before analyzing")
	liveCmd.Flags().StringVar(&liveStrategy, "strategy", "single", "strategy to analyze once warmup elapses")
	rootCmd.AddCommand(liveCmd)
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Subscribe to a live feed, warm the cache, then analyze once",
	Long: "live connects a feed.Client to the configured websocket, joins --symbol, " +
		"lets quotes accumulate in a cache.MarketCache for --warmup, then runs one " +
		"Calculator.Analyze pass against the warmed cache and prints the result.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLive()
	},
}

func runLive() error {
	if symbol == "" {
		return fmt.Errorf("--symbol is required")
	}
	if underlyingMark <= 0 {
		return fmt.Errorf("--mark must be positive")
	}

	tag, err := parseStrategyTag(liveStrategy)
	if err != nil {
		return err
	}
	newModel, newModelDiv, err := resolveModel(model)
	if err != nil {
		return err
	}
	primary, err := resolveSolver(solver)
	if err != nil {
		return err
	}

	cfg := feed.LoadConfig(feedConfigPath)
	marketCache := cache.NewMarketCache()
	marketCache.SetUnderlyingSpot(symbol, underlyingMark)

	client := feed.New(cfg, marketCache, 4)
	client.Start()
	client.Join(symbol)
	defer client.Stop()

	fmt.Printf("live - warming cache for %s over %s\n", symbol, warmup)
	time.Sleep(warmup)

	symbolTable := symbolScopedTable{cache: marketCache, symbol: symbol}
	calc := calculator.New(underlyingMark, symbolTable, consoleSink{}, flatRateCurve(0), noLiveDividends{}, nil,
		newModel, newModelDiv, primary, tradeCost, multiplier)

	collector, err := metrics.NewAnalyzeCollector()
	if err != nil {
		return fmt.Errorf("constructing metrics collector: %w", err)
	}

	n, err := collector.Observe(calc, tag)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	fmt.Printf("emitted %d rows for %s\n", n, tag)
	return nil
}

func parseStrategyTag(name string) (chain.StrategyTag, error) {
	switch name {
	case "single":
		return chain.Single, nil
	case "coveredcall":
		return chain.CoveredCall, nil
	case "cashsecuredput":
		return chain.CashSecuredPut, nil
	case "verticalbearcall":
		return chain.VerticalBearCall, nil
	case "verticalbullput":
		return chain.VerticalBullPut, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", name)
	}
}

// symbolScopedTable adapts cache.MarketCache.ContractsFor into a
// chain.ChainTable scoped to one underlying, since the cache otherwise
// tracks every symbol a feed has ever joined.
type symbolScopedTable struct {
	cache  *cache.MarketCache
	symbol string
}

func (t symbolScopedTable) Len() int {
	return len(t.cache.ContractsFor(t.symbol))
}

func (t symbolScopedTable) Row(i int) chain.OptionContract {
	return t.cache.ContractsFor(t.symbol)[i]
}

// flatRateCurve is a chain.RateCurve that always returns the same
// rate, used when live analysis has no rate-curve store configured.
type flatRateCurve float64

func (r flatRateCurve) Rate(termYears float64) (float64, bool) { return float64(r), true }

// noLiveDividends is a chain.DividendSchedule that always reports no
// schedule and no yield, used when live analysis has no dividend store
// configured.
type noLiveDividends struct{}

func (noLiveDividends) Schedule(symbol string) ([]chain.Dividend, bool) { return nil, false }
func (noLiveDividends) Yield(symbol string) (float64, bool)             { return 0, false }
