package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intrinio/option-analytics-go/calculator"
	"github.com/intrinio/option-analytics-go/chain"
	"github.com/intrinio/option-analytics-go/metrics"
	"github.com/intrinio/option-analytics-go/store"
)

// Grounded on _examples/amjadjibon-gotick/cmd/root.go's single
// cobra.Command-plus-flags shape; re-themed with one subcommand per
// chain.StrategyTag instead of one TUI entry point.
var (
	dsn            string
	symbol         string
	underlyingMark float64
	model          string
	solver         string
	tradeCost      float64
	multiplier     float64
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "db", "", "PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVarP(&symbol, "symbol", "s", "", "underlying ticker symbol")
	rootCmd.PersistentFlags().Float64Var(&underlyingMark, "mark", 0, "current underlying mark price")
	rootCmd.PersistentFlags().StringVar(&model, "model", "blackscholes", "pricing model to use")
	rootCmd.PersistentFlags().StringVar(&solver, "solver", "newton", "primary implied-volatility solver")
	rootCmd.PersistentFlags().Float64Var(&tradeCost, "trade-cost", 0.65, "per-leg trade cost")
	rootCmd.PersistentFlags().Float64Var(&multiplier, "multiplier", 100, "contract multiplier")

	rootCmd.AddCommand(
		newStrategyCmd("single", chain.Single),
		newStrategyCmd("coveredcall", chain.CoveredCall),
		newStrategyCmd("cashsecuredput", chain.CashSecuredPut),
		newStrategyCmd("verticalbearcall", chain.VerticalBearCall),
		newStrategyCmd("verticalbullput", chain.VerticalBullPut),
	)
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the options expected-value analyzer against a live chain",
	Long:  "analyze drives one strategy's expected-value pipeline over an option chain stored in PostgreSQL, emitting scored rows to stdout.",
}

func newStrategyCmd(use string, tag chain.StrategyTag) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Analyze the %s strategy", tag),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(tag)
		},
	}
}

func runAnalyze(tag chain.StrategyTag) error {
	if symbol == "" {
		return fmt.Errorf("--symbol is required")
	}
	if dsn == "" {
		return fmt.Errorf("--db is required")
	}
	if underlyingMark <= 0 {
		return fmt.Errorf("--mark must be positive")
	}

	db, err := store.Open(dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	table, err := store.NewPgChainTable(db, symbol)
	if err != nil {
		return fmt.Errorf("loading chain table: %w", err)
	}
	rates, err := store.NewPgRateCurve(db)
	if err != nil {
		return fmt.Errorf("loading rate curve: %w", err)
	}
	dividends := store.NewPgDividendSchedule(db)

	newModel, newModelDiv, err := resolveModel(model)
	if err != nil {
		return err
	}
	primary, err := resolveSolver(solver)
	if err != nil {
		return err
	}

	calc := calculator.New(underlyingMark, table, consoleSink{}, rates, dividends, nil,
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

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
