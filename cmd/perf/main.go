// Command perf reports on trading performance recorded in the performance
// database: aggregate summaries, per-regime breakdowns, decay detection, and
// recent trade listings. It only reads; trades are recorded by the owning
// trading process.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-perf/internal/analyzer"
	"github.com/rxtech-lab/argo-perf/internal/config"
	"github.com/rxtech-lab/argo-perf/internal/logger"
	"github.com/rxtech-lab/argo-perf/internal/store"
	"github.com/rxtech-lab/argo-perf/internal/strategy"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// resolveConfig loads the configuration file when one is given and applies
// command-line overrides on top.
func resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg := config.DefaultConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}

		cfg = loaded
	}

	if db := cmd.String("db"); db != "" {
		cfg.DatabasePath = db
	}

	return cfg, nil
}

// withAnalyzer wires a store and analyzer for a single command invocation,
// guaranteeing the store is released afterwards.
func withAnalyzer(cmd *cli.Command, fn func(a *analyzer.PerformanceAnalyzer, cfg config.Config) (any, error)) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	zapLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zapLogger.Sync()

	perfStore := store.NewStore(cfg.DatabasePath, zapLogger)
	defer perfStore.Close()

	result, err := fn(analyzer.NewPerformanceAnalyzer(perfStore, zapLogger), cfg)
	if err != nil {
		return err
	}

	return printYAML(result)
}

func printYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	fmt.Print(string(data))

	return nil
}

func stringFilter(cmd *cli.Command, name string) optional.Option[string] {
	if value := cmd.String(name); value != "" {
		return optional.Some(value)
	}

	return optional.None[string]()
}

func summaryAction(ctx context.Context, cmd *cli.Command) error {
	return withAnalyzer(cmd, func(a *analyzer.PerformanceAnalyzer, cfg config.Config) (any, error) {
		return a.Summary(stringFilter(cmd, "strategy"), stringFilter(cmd, "regime"))
	})
}

func regimesAction(ctx context.Context, cmd *cli.Command) error {
	return withAnalyzer(cmd, func(a *analyzer.PerformanceAnalyzer, cfg config.Config) (any, error) {
		return a.ByRegime(stringFilter(cmd, "strategy"))
	})
}

func decayAction(ctx context.Context, cmd *cli.Command) error {
	return withAnalyzer(cmd, func(a *analyzer.PerformanceAnalyzer, cfg config.Config) (any, error) {
		decayConfig := analyzer.DecayConfig{
			RecentWindow:          cfg.Decay.RecentWindow,
			BaselineWindow:        cfg.Decay.BaselineWindow,
			WinRateDropThreshold:  cfg.Decay.WinRateDropThreshold,
			BreakevenProfitFactor: analyzer.DefaultDecayConfig().BreakevenProfitFactor,
		}

		if recent := cmd.Int("recent"); recent > 0 {
			decayConfig.RecentWindow = int(recent)
		}

		if baseline := cmd.Int("baseline"); baseline > 0 {
			decayConfig.BaselineWindow = int(baseline)
		}

		return a.DetectDecay(cmd.String("strategy"), decayConfig)
	})
}

// tradeView flattens a closed trade record for report output.
type tradeView struct {
	TradeID         string    `yaml:"trade_id"`
	Pair            string    `yaml:"pair"`
	Strategy        string    `yaml:"strategy"`
	EntryTime       time.Time `yaml:"entry_time"`
	EntryPrice      float64   `yaml:"entry_price"`
	EntryRegime     string    `yaml:"entry_regime"`
	ExitTime        time.Time `yaml:"exit_time"`
	ExitPrice       float64   `yaml:"exit_price"`
	ExitReason      string    `yaml:"exit_reason"`
	ExitRegime      string    `yaml:"exit_regime"`
	PnLPercent      float64   `yaml:"pnl_percent"`
	DurationMinutes float64   `yaml:"duration_minutes"`
	RegimeChanged   bool      `yaml:"regime_changed"`
}

func recentAction(ctx context.Context, cmd *cli.Command) error {
	return withAnalyzer(cmd, func(a *analyzer.PerformanceAnalyzer, cfg config.Config) (any, error) {
		trades, err := a.RecentTrades(int(cmd.Int("n")), stringFilter(cmd, "strategy"))
		if err != nil {
			return nil, err
		}

		views := make([]tradeView, 0, len(trades))
		for _, trade := range trades {
			views = append(views, tradeView{
				TradeID:         trade.TradeID,
				Pair:            trade.Pair,
				Strategy:        trade.Strategy,
				EntryTime:       trade.EntryTime,
				EntryPrice:      trade.EntryPrice,
				EntryRegime:     trade.EntryRegime.Combined,
				ExitTime:        orZero(trade.ExitTime),
				ExitPrice:       orZero(trade.ExitPrice),
				ExitReason:      orZero(trade.ExitReason),
				ExitRegime:      trade.ExitRegime.Combined,
				PnLPercent:      orZero(trade.PnLPercent),
				DurationMinutes: orZero(trade.DurationMinutes),
				RegimeChanged:   orZero(trade.RegimeChanged),
			})
		}

		return views, nil
	})
}

func strategiesAction(ctx context.Context, cmd *cli.Command) error {
	registry := strategy.NewRegistry()

	if name := cmd.String("name"); name != "" {
		strategyConfig, err := registry.Get(name)
		if err != nil {
			return err
		}

		return printYAML(map[string]strategy.Config{name: strategyConfig})
	}

	return printYAML(registry.List())
}

func orZero[T any](value optional.Option[T]) T {
	if value.IsNone() {
		var zero T

		return zero
	}

	return value.Unwrap()
}

func main() {
	cmd := &cli.Command{
		Name:  "perf",
		Usage: "Report on recorded trading performance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the performance database file",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "summary",
				Usage: "Aggregate performance over closed trades",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "Filter by strategy name"},
					&cli.StringFlag{Name: "regime", Aliases: []string{"r"}, Usage: "Filter by entry regime label"},
				},
				Action: summaryAction,
			},
			{
				Name:  "regimes",
				Usage: "Performance breakdown by entry regime",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "Filter by strategy name"},
				},
				Action: regimesAction,
			},
			{
				Name:  "decay",
				Usage: "Compare recent performance against the historical baseline",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "Strategy to analyze", Required: true},
					&cli.IntFlag{Name: "recent", Usage: "Recent window size (overrides config)"},
					&cli.IntFlag{Name: "baseline", Usage: "Baseline window size (overrides config)"},
				},
				Action: decayAction,
			},
			{
				Name:  "recent",
				Usage: "List the most recently closed trades",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "n", Usage: "Number of trades to list", Value: 20},
					&cli.StringFlag{Name: "strategy", Aliases: []string{"s"}, Usage: "Filter by strategy name"},
				},
				Action: recentAction,
			},
			{
				Name:  "strategies",
				Usage: "List registered strategy configurations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Show one strategy's full configuration"},
				},
				Action: strategiesAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
