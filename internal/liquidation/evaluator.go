package liquidation

// evaluator.go — flash-loan profitability math.
//
// All quantities are unsigned 18-decimal fixed point. Arithmetic never wraps
// silently: multiplication overflow and subtraction underflow both resolve to
// a not-profitable candidate.

import (
	"github.com/holiman/uint256"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/domain"
)

// Evaluator decides whether liquidating a vault is profitable net of the
// flash-loan fee and a configured minimum-profit margin. Both rates are fixed
// at construction.
type Evaluator struct {
	feeRate   *uint256.Int // flash-loan fee per 1e18 borrowed
	minProfit *uint256.Int // required margin, 18 decimals
}

// NewEvaluator returns an evaluator with the given flash-loan fee rate and
// minimum-profit margin, both 18-decimal fixed point.
func NewEvaluator(flashLoanFeeRate, minimumProfit *uint256.Int) *Evaluator {
	return &Evaluator{
		feeRate:   new(uint256.Int).Set(flashLoanFeeRate),
		minProfit: new(uint256.Int).Set(minimumProfit),
	}
}

// Evaluate computes the flash-loan cost of liquidating the vault at askPrice
// and whether it clears the fee plus the minimum-profit margin.
//
//	flashLoan = askPrice * debt / 1e18
//	profit    = collateral - flashLoan   (clamped to 0 on underflow)
//	fee       = flashLoan * feeRate / 1e18
//	profitable iff fee <= profit + minProfit
//
// Vaults with zero debt are not profitable: liquidating them is economically
// a no-op, and detectLiquidation is not trusted to exclude them.
func (e *Evaluator) Evaluate(v domain.Vault, askPrice *uint256.Int) domain.Candidate {
	c := domain.Candidate{
		VaultID:         v.ID,
		Debt:            v.Debt,
		Collateral:      v.Collateral,
		AskPrice:        askPrice,
		FlashLoanAmount: new(uint256.Int),
		Fee:             new(uint256.Int),
		Profit:          new(uint256.Int),
	}

	if v.Debt == nil || v.Debt.IsZero() {
		return c
	}

	flashLoan, overflow := domain.MulWad(askPrice, v.Debt)
	if overflow {
		// A flash loan beyond 2^256 wei-units is not fundable anyway.
		return c
	}
	c.FlashLoanAmount = flashLoan

	profit, underflow := new(uint256.Int).SubOverflow(v.Collateral, flashLoan)
	if underflow {
		// Flash loan costs more than the collateral is worth.
		return c
	}
	c.Profit = profit

	fee, overflow := domain.MulWad(flashLoan, e.feeRate)
	if overflow {
		return c
	}
	c.Fee = fee

	margin, overflow := new(uint256.Int).AddOverflow(profit, e.minProfit)
	if overflow {
		// profit + minProfit exceeds 2^256; no representable fee can beat it.
		c.Profitable = true
		return c
	}

	c.Profitable = !fee.Gt(margin)
	return c
}
