package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/config"
	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/adapters/onchain"
	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/liquidation"
	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/ports"
	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/scanner"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional, env vars override)")
	once := flag.Bool("once", false, "run one scan pass and exit")
	dryRun := flag.Bool("dry-run", false, "evaluate candidates but never submit transactions")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	minProfit, err := cfg.MinimumProfitWad()
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	feeRate, err := cfg.FlashLoanFeeRateWad()
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	slog.Info("liquidator starting",
		"interval", cfg.Interval(),
		"orderbook_index", cfg.Liquidation.OrderBookIndex,
		"minimum_profit", cfg.Liquidation.MinimumProfit,
		"flash_loan_fee_rate", cfg.Liquidation.FlashLoanFeeRate,
		"once", *once,
		"dry_run", *dryRun,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	chain, err := onchain.New(ctx, onchain.Options{
		RPCURL:            cfg.RPC.URL,
		VaultsAddress:     cfg.Contracts.Vaults,
		OrderBookAddress:  cfg.Contracts.OrderBook,
		LiquidatorAddress: cfg.Contracts.Liquidator,
		PrivateKey:        cfg.Account.PrivateKey,
		AdminAddress:      cfg.Account.Admin,
		ReadsPerSecond:    cfg.RPC.ReadsPerSecond,
	})
	if err != nil {
		slog.Error("failed to connect chain gateway", "err", err)
		os.Exit(1)
	}
	defer chain.Close()

	var liquidator ports.Liquidator = chain
	if *dryRun {
		liquidator = dryRunLiquidator{}
	}

	scanCfg := scanner.DefaultConfig()
	scanCfg.Interval = cfg.Interval()
	scanCfg.OrderBookIndex = cfg.Liquidation.OrderBookIndex
	scanCfg.MaxFailureStreak = cfg.Liquidation.MaxFailureStreak

	s := scanner.New(scanCfg, chain, chain, liquidator, liquidation.NewEvaluator(feeRate, minProfit))

	if *once {
		report, err := s.RunOnce(ctx)
		if err != nil {
			slog.Error("scan pass failed", "err", err)
			os.Exit(1)
		}
		slog.Info("scan pass complete",
			"scanned", report.Scanned,
			"submitted", report.Submitted,
			"failures", report.Failures,
		)
		return
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("scanner exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("liquidator stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
