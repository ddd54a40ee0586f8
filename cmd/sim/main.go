package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"CrashLadder/internal/config"
	"CrashLadder/internal/engine"
	"CrashLadder/internal/feed"
	"CrashLadder/internal/ledger"
	"CrashLadder/internal/recorder"
	"CrashLadder/internal/report"
	"CrashLadder/internal/scheduler"
	"CrashLadder/internal/withdraw"
)

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	lad, err := cfg.BuildLadder()
	if err != nil {
		log.Fatal().Err(err).Msg("build ladder")
	}

	led, err := ledger.New(
		decimal.NewFromFloat(cfg.Bankroll.InitialBalance),
		decimal.NewFromFloat(cfg.Bankroll.ResetBalance),
		ledger.BustPolicy(cfg.Bankroll.BustPolicy),
		cfg.Bankroll.StateFile,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("init ledger")
	}

	// Recorders: the aggregator always runs; SQLite joins it when configured.
	agg := report.NewAggregator()
	var rec recorder.Recorder = agg
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, continuing without persistence")
		} else {
			rec = recorder.NewMultiRecorder(agg, sr)
			defer sr.Close()
		}
	}

	var src feed.Source
	switch cfg.Feed.Source {
	case "csv":
		cs, err := feed.NewCSVSource(cfg.Feed.CSVPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open csv feed")
		}
		defer cs.Close()
		src = cs
	default:
		src = feed.NewSyntheticSource(
			cfg.Feed.Synthetic.Seed,
			cfg.Feed.Synthetic.Count,
			cfg.Feed.Synthetic.HouseEdge,
			cfg.Feed.Synthetic.Interval,
		)
	}
	log.Info().Str("source", src.Name()).Msg("feed ready")

	policy := withdraw.Policy{
		Kind:     withdraw.Kind(cfg.Withdrawal.Kind),
		Fraction: decimal.NewFromFloat(cfg.Withdrawal.Fraction),
		Amount:   decimal.NewFromFloat(cfg.Withdrawal.Amount),
	}

	var periodOutcomes int64
	var dailySpec string
	switch cfg.Withdrawal.Mode {
	case "outcomes":
		periodOutcomes = cfg.Withdrawal.PeriodOutcomes
	case "daily":
		dailySpec = cfg.Withdrawal.DailyCron
	}

	eng := engine.New(engine.Options{
		Threshold:      cfg.Threshold,
		TriggerLength:  cfg.TriggerLength,
		Ladder:         lad,
		Ledger:         led,
		Policy:         policy,
		PeriodOutcomes: periodOutcomes,
		HaltOnBust:     cfg.Bankroll.BustPolicy == "halt",
		Recorder:       rec,
	})

	runner, err := scheduler.NewRunner(src, eng, cfg.Feed.Synthetic.Interval, dailySpec)
	if err != nil {
		log.Fatal().Err(err).Msg("init runner")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}

	fmt.Print(report.Format(agg.Summary()))
}
