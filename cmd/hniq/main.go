package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	appName = "hniq"
	version = "v1.2.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "HNI investment intelligence: collect, score, and rank a stock universe",
		Version: version,
		Long: `hniq scores a configurable stock universe on quality, value, growth, and
momentum, partitions it into market-cap tiers, and produces ranked portfolio
recommendations plus per-symbol health analyses.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config YAML (defaults apply when empty)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect raw metrics for the configured universe",
		Long:  "Fetches quotes and price history for every universe symbol and writes a raw snapshot CSV",
		RunE:  runCollect,
	}
	collectCmd.Flags().String("out", "data/raw_snapshot.csv", "Output snapshot path")
	collectCmd.Flags().String("fundamentals", "", "Optional fundamentals CSV merged into the snapshot")
	collectCmd.Flags().Bool("no-cache", false, "Bypass the snapshot cache")

	rankCmd := &cobra.Command{
		Use:   "rank",
		Short: "Score, classify, and rank a collected snapshot",
		Long:  "Runs the full scoring pipeline over a raw snapshot and writes report artifacts",
		RunE:  runRank,
	}
	rankCmd.Flags().String("input", "data/raw_snapshot.csv", "Raw snapshot path")

	healthCmd := &cobra.Command{
		Use:   "health [symbol]",
		Short: "Analyze the financial health of one symbol",
		Long:  "Scores a symbol across six health dimensions and prints the full analysis report",
		Args:  cobra.ExactArgs(1),
		RunE:  runHealth,
	}
	healthCmd.Flags().String("input", "data/raw_snapshot.csv", "Raw snapshot path")

	universeCmd := &cobra.Command{
		Use:   "universe",
		Short: "Show and validate the configured universe",
		RunE:  runUniverse,
	}

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the pipeline and serve results over HTTP",
		Long:  "Scores a snapshot, then starts the monitoring server with /health, /metrics, /rankings, and /analyze endpoints",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().String("input", "data/raw_snapshot.csv", "Raw snapshot path")
	monitorCmd.Flags().String("host", "127.0.0.1", "HTTP server host")
	monitorCmd.Flags().Int("port", 8080, "HTTP server port")

	rootCmd.AddCommand(collectCmd, rankCmd, healthCmd, universeCmd, monitorCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
