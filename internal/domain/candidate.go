package domain

import (
	"time"

	"github.com/holiman/uint256"
)

// Candidate is the result of evaluating one liquidatable vault against the
// current best ask. It exists only within a single pass and is never
// persisted; the computed amounts are carried so the decision can be audited
// from the logs.
type Candidate struct {
	VaultID    uint64
	Debt       *uint256.Int
	Collateral *uint256.Int
	AskPrice   *uint256.Int

	// FlashLoanAmount is the collateral-asset cost of buying enough debt
	// asset at AskPrice to repay the vault: AskPrice * Debt / 1e18.
	FlashLoanAmount *uint256.Int
	// Fee is the flash-loan fee on that amount.
	Fee *uint256.Int
	// Profit is Collateral - FlashLoanAmount, clamped to zero when the
	// flash loan costs more than the collateral is worth.
	Profit *uint256.Int

	Profitable bool
}

// CycleReport summarizes one full scan pass for observability.
type CycleReport struct {
	ID        string // correlates all log lines of one pass
	StartedAt time.Time
	Duration  time.Duration

	Scanned   int // vault IDs visited, including cache hits
	Skipped   int // known-closed or newly-closed vaults
	Eligible  int // vaults flagged by detectLiquidation
	Submitted int // liquidation transactions sent
	Failures  int // per-vault errors contained within the pass
}
