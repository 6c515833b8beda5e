package liquidation

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/domain"
)

// wad returns n * 1e18.
func wad(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(1e18))
}

func mustWad(t *testing.T, s string) *uint256.Int {
	t.Helper()
	v, err := domain.ParseWad(s)
	require.NoError(t, err)
	return v
}

// aaveFeeRate is 0.09% in 18-decimal fixed point.
func aaveFeeRate() *uint256.Int {
	return uint256.NewInt(9e14)
}

func TestEvaluator_Profitable(t *testing.T) {
	// debt 100, ask 2.0, collateral 250:
	// flash loan = 200, profit = 50, fee = 200 * 0.0009 = 0.18
	e := NewEvaluator(aaveFeeRate(), uint256.NewInt(0))

	c := e.Evaluate(domain.Vault{
		ID:         3,
		Debt:       wad(100),
		Collateral: wad(250),
	}, wad(2))

	assert.True(t, c.Profitable)
	assert.Equal(t, wad(200), c.FlashLoanAmount)
	assert.Equal(t, wad(50), c.Profit)
	assert.Equal(t, mustWad(t, "180000000000000000"), c.Fee)
	assert.Equal(t, uint64(3), c.VaultID)
}

func TestEvaluator_CollateralUnderflow(t *testing.T) {
	// Same vault but collateral 150 < flash loan 200: profit clamps to
	// zero, never a negative unsigned value.
	e := NewEvaluator(aaveFeeRate(), uint256.NewInt(0))

	c := e.Evaluate(domain.Vault{
		Debt:       wad(100),
		Collateral: wad(150),
	}, wad(2))

	assert.False(t, c.Profitable)
	assert.Equal(t, wad(200), c.FlashLoanAmount)
	assert.True(t, c.Profit.IsZero())
}

func TestEvaluator_FeeEqualsMarginIsProfitable(t *testing.T) {
	// collateral = flash loan + fee exactly, so profit == fee. The
	// comparison is non-strict: equality is still profitable.
	e := NewEvaluator(aaveFeeRate(), uint256.NewInt(0))

	collateral := mustWad(t, "200180000000000000000") // 200 + 0.18
	c := e.Evaluate(domain.Vault{
		Debt:       wad(100),
		Collateral: collateral,
	}, wad(2))

	require.Equal(t, c.Fee, c.Profit)
	assert.True(t, c.Profitable)

	// One wei less collateral tips it over.
	less := new(uint256.Int).Sub(collateral, uint256.NewInt(1))
	c = e.Evaluate(domain.Vault{Debt: wad(100), Collateral: less}, wad(2))
	assert.False(t, c.Profitable)
}

func TestEvaluator_MinimumProfitWidensMargin(t *testing.T) {
	// profit < fee on its own, but the configured margin covers the gap.
	// Profitability is non-decreasing in minimumProfit.
	vault := domain.Vault{
		Debt:       wad(100),
		Collateral: wad(200), // profit = 0, fee = 0.18
	}

	c := NewEvaluator(aaveFeeRate(), uint256.NewInt(0)).Evaluate(vault, wad(2))
	assert.False(t, c.Profitable)

	c = NewEvaluator(aaveFeeRate(), wad(1)).Evaluate(vault, wad(2))
	assert.True(t, c.Profitable)
}

func TestEvaluator_FeeMonotonicity(t *testing.T) {
	// Raising the fee rate can only turn a profitable candidate
	// unprofitable, never the reverse.
	vault := domain.Vault{
		Debt:       wad(100),
		Collateral: wad(201), // profit = 1
	}

	rates := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(9e14), // fee 0.18
		uint256.NewInt(5e15), // fee 1.0
		uint256.NewInt(6e15), // fee 1.2
		wad(1),               // 100% rate, fee 200
	}

	wasProfitable := true
	for _, r := range rates {
		c := NewEvaluator(r, uint256.NewInt(0)).Evaluate(vault, wad(2))
		if c.Profitable {
			assert.True(t, wasProfitable, "fee rate %s turned candidate profitable again", r.Dec())
		}
		wasProfitable = c.Profitable
	}
	assert.False(t, wasProfitable, "largest fee rate should not be profitable")
}

func TestEvaluator_ZeroDebt(t *testing.T) {
	// detectLiquidation should never flag a zero-debt vault, but if it
	// does, liquidating is an economic no-op and gets skipped.
	e := NewEvaluator(aaveFeeRate(), uint256.NewInt(0))

	c := e.Evaluate(domain.Vault{
		Debt:       uint256.NewInt(0),
		Collateral: wad(250),
	}, wad(2))

	assert.False(t, c.Profitable)
	assert.True(t, c.FlashLoanAmount.IsZero())
	assert.True(t, c.Fee.IsZero())
	assert.True(t, c.Profit.IsZero())
}

func TestEvaluator_FlashLoanOverflow(t *testing.T) {
	// ask * debt beyond 2^256 resolves to not profitable, never a wrap.
	huge := new(uint256.Int).Sub(new(uint256.Int), uint256.NewInt(1)) // 2^256 - 1
	e := NewEvaluator(aaveFeeRate(), uint256.NewInt(0))

	c := e.Evaluate(domain.Vault{Debt: huge, Collateral: huge}, huge)
	assert.False(t, c.Profitable)
}
