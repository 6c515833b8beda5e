package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/domain"
	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/liquidation"
	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/ports"
)

// Config controls the scan loop.
type Config struct {
	// Interval is the pause between the end of one pass and the start of
	// the next. Measured end-to-start, so a slow pass never overlaps.
	Interval time.Duration

	// OrderBookIndex is the single order book liquidations trade against.
	OrderBookIndex uint64

	// MaxFailureStreak is the number of consecutive failed passes after
	// which an ERROR-level alarm is logged. The loop keeps running.
	MaxFailureStreak int

	// BackoffMax caps the extra delay added after failed passes.
	BackoffMax time.Duration
}

// DefaultConfig returns a sensible production configuration.
func DefaultConfig() Config {
	return Config{
		Interval:         30 * time.Second,
		MaxFailureStreak: 5,
		BackoffMax:       5 * time.Minute,
	}
}

// Scanner drives the scan-evaluate-execute loop over the vault registry.
// All state is owned by the single goroutine inside Run; RunOnce is not
// reentrant.
type Scanner struct {
	cfg        Config
	vaults     ports.VaultRegistry
	liquidator ports.Liquidator
	oracle     *liquidation.PriceOracle
	evaluator  *liquidation.Evaluator
	closed     *liquidation.ClosedSet
}

// New creates a Scanner with all dependencies injected.
func New(
	cfg Config,
	vaults ports.VaultRegistry,
	book ports.OrderBook,
	liquidator ports.Liquidator,
	evaluator *liquidation.Evaluator,
) *Scanner {
	return &Scanner{
		cfg:        cfg,
		vaults:     vaults,
		liquidator: liquidator,
		oracle:     liquidation.NewPriceOracle(book, cfg.OrderBookIndex),
		evaluator:  evaluator,
		closed:     liquidation.NewClosedSet(),
	}
}

// Run executes passes until the context is cancelled. A failed pass is logged
// and retried at the next interval with capped extra backoff; it never stops
// the loop. Consecutive failures past cfg.MaxFailureStreak raise an
// ERROR-level alarm so an operator notices a dead RPC or contract.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.Interval,
		"orderbook_index", s.cfg.OrderBookIndex,
	)

	streak := 0
	backoff := time.Duration(0)

	for {
		report, err := s.RunOnce(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			slog.Info("scanner stopped")
			return nil
		case err != nil:
			streak++
			backoff = min(max(2*backoff, s.cfg.Interval), s.cfg.BackoffMax)
			slog.Warn("scan pass failed",
				"err", err,
				"failure_streak", streak,
				"backoff", backoff,
			)
			if s.cfg.MaxFailureStreak > 0 && streak >= s.cfg.MaxFailureStreak {
				slog.Error("scan pass failure streak exceeded threshold",
					"failure_streak", streak,
					"threshold", s.cfg.MaxFailureStreak,
				)
			}
		default:
			streak = 0
			backoff = 0
			logReport(report)
		}

		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-time.After(s.cfg.Interval + backoff):
		}
	}
}

// RunOnce executes exactly one pass over the vault registry. An error reading
// the vault count fails the pass; any per-vault error is contained, counted in
// the report, and the sweep continues with the next ID.
func (s *Scanner) RunOnce(ctx context.Context) (domain.CycleReport, error) {
	report := domain.CycleReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	maxID, err := s.vaults.VaultCount(ctx)
	if err != nil {
		return report, fmt.Errorf("scanner: vault count: %w", err)
	}

	for id := uint64(0); id < maxID; id++ {
		// Cancellation is honored only here, at iteration boundaries,
		// so a submission is never torn between estimate and send.
		if ctx.Err() != nil {
			report.Duration = time.Since(report.StartedAt)
			return report, ctx.Err()
		}

		report.Scanned++
		if s.scanVault(ctx, id, &report) {
			report.Failures++
		}
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// scanVault runs the full read-evaluate-submit sequence for one vault.
// It returns true when the vault failed on a remote call.
func (s *Scanner) scanVault(ctx context.Context, id uint64, report *domain.CycleReport) (failed bool) {
	if s.closed.Known(id) {
		report.Skipped++
		return false
	}

	vault, err := s.vaults.Vault(ctx, id)
	if err != nil {
		slog.Warn("vault read failed", "cycle", report.ID, "vault", id, "err", err)
		return true
	}
	if vault.Closed {
		s.closed.Mark(id)
		report.Skipped++
		return false
	}

	eligible, err := s.vaults.DetectLiquidation(ctx, id)
	if err != nil {
		slog.Warn("liquidation detection failed", "cycle", report.ID, "vault", id, "err", err)
		return true
	}
	if !eligible {
		return false
	}
	report.Eligible++

	ask, err := s.oracle.GetBestAsk(ctx)
	if err != nil {
		if errors.Is(err, liquidation.ErrNoLiquidity) {
			// Nothing to buy the debt asset against; the vault stays
			// eligible and is retried once liquidity returns.
			slog.Debug("no order book liquidity", "cycle", report.ID, "vault", id)
			return false
		}
		slog.Warn("best ask read failed", "cycle", report.ID, "vault", id, "err", err)
		return true
	}

	candidate := s.evaluator.Evaluate(vault, ask)
	if !candidate.Profitable {
		slog.Debug("liquidation not profitable",
			"cycle", report.ID,
			"vault", id,
			"flash_loan", candidate.FlashLoanAmount.Dec(),
			"fee", candidate.Fee.Dec(),
			"profit", candidate.Profit.Dec(),
		)
		return false
	}

	submitted, err := s.liquidator.Liquidate(ctx, domain.LiquidationRequest{
		VaultID:        id,
		OrderBookIndex: s.cfg.OrderBookIndex,
		Price:          candidate.AskPrice,
		Debt:           candidate.Debt,
	})
	if err != nil {
		slog.Warn("liquidation submit failed", "cycle", report.ID, "vault", id, "err", err)
		return true
	}

	report.Submitted++
	slog.Info("liquidation submitted",
		"cycle", report.ID,
		"vault", id,
		"price", candidate.AskPrice.Dec(),
		"flash_loan", candidate.FlashLoanAmount.Dec(),
		"fee", candidate.Fee.Dec(),
		"profit", candidate.Profit.Dec(),
		"tx", submitted.TxHash,
	)
	return false
}

func logReport(r domain.CycleReport) {
	slog.Info("scan pass complete",
		"cycle", r.ID,
		"scanned", r.Scanned,
		"skipped", r.Skipped,
		"eligible", r.Eligible,
		"submitted", r.Submitted,
		"failures", r.Failures,
		"duration", r.Duration.Round(time.Millisecond),
	)
}
