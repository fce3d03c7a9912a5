package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/application"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/config"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/data/cache"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/data/collector"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/data/snapshot"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/features"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/health"
	httpserver "github.com/shaheemalisk-gif/hni-investment-intelligence/internal/interfaces/http"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/persistence"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/persistence/postgres"
	"github.com/shaheemalisk-gif/hni-investment-intelligence/internal/universe"
)

// setup loads config and the universe, honoring the persistent flags.
func setup(cmd *cobra.Command) (*config.Config, *universe.Universe, error) {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, nil, err
		}
	}

	u := universe.Default()
	if cfg.Universe.Path != "" {
		var err error
		if u, err = universe.LoadFromFile(cfg.Universe.Path); err != nil {
			return nil, nil, err
		}
	}
	return cfg, u, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, u, err := setup(cmd)
	if err != nil {
		return err
	}

	col := collector.New(collector.YahooSource{}, cfg.Collector)
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if !noCache {
		if cfg.Cache.Enabled {
			col = col.WithCache(cache.New(cfg.Cache))
		} else {
			col = col.WithCache(cache.NewMemory(cfg.Cache.TTL()))
		}
	}

	t, err := col.Collect(cmd.Context(), u)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("fundamentals"); path != "" {
		extra, err := collector.LoadFundamentals(path)
		if err != nil {
			return err
		}
		t = collector.MergeFundamentals(t, extra)
	}

	out, _ := cmd.Flags().GetString("out")
	return snapshot.Write(t, out)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, u, err := setup(cmd)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	raw, err := snapshot.Read(input)
	if err != nil {
		return err
	}

	var repo *persistence.Repository
	if cfg.Database.Enabled {
		db, err := postgres.Connect(cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.EnsureSchema(cmd.Context(), db); err != nil {
			return err
		}
		repo = &persistence.Repository{Scores: postgres.NewScoresRepo(db, 30*time.Second)}
	}

	pipeline, err := application.NewPipeline(cfg, u, repo)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(cmd.Context(), raw)
	if err != nil {
		return err
	}
	if err := pipeline.WriteArtifacts(res); err != nil {
		return err
	}

	fmt.Printf("Run %s complete: %d companies ranked across %d tiers.\n",
		res.RunID, res.Enriched.Len(), len(res.Results))
	fmt.Printf("Artifacts written to %s\n", cfg.Output.Dir)
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	raw, err := snapshot.Read(input)
	if err != nil {
		return err
	}

	enriched, err := features.NewEngineer().EngineerAll(raw)
	if err != nil {
		return err
	}
	analyzer, err := health.NewAnalyzer(enriched, cfg.Health.Weights)
	if err != nil {
		return err
	}

	fmt.Println(health.FormatAnalysis(analyzer.Analyze(args[0])))
	return nil
}

func runUniverse(cmd *cobra.Command, args []string) error {
	_, u, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}

	fmt.Printf("Universe: %d symbols across %d sectors\n", len(u.AllSymbols()), len(u.Sectors))
	fmt.Printf("Flagship: %v\n", u.Flagship)
	for _, sector := range sortedSectors(u) {
		fmt.Printf("  %-18s %d symbols\n", sector, len(u.Sectors[sector]))
	}
	return nil
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, u, err := setup(cmd)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	raw, err := snapshot.Read(input)
	if err != nil {
		return err
	}

	pipeline, err := application.NewPipeline(cfg, u, nil)
	if err != nil {
		return err
	}
	res, err := pipeline.Run(cmd.Context(), raw)
	if err != nil {
		return err
	}
	analyzer, err := health.NewAnalyzer(res.Enriched, cfg.Health.Weights)
	if err != nil {
		return err
	}

	serverCfg := httpserver.DefaultServerConfig()
	serverCfg.Host, _ = cmd.Flags().GetString("host")
	serverCfg.Port, _ = cmd.Flags().GetInt("port")

	server := httpserver.NewServer(serverCfg)
	server.SwapResult(res, analyzer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

func sortedSectors(u *universe.Universe) []string {
	sectors := make([]string, 0, len(u.Sectors))
	for sector := range u.Sectors {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)
	return sectors
}
