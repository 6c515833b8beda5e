package domain

import "github.com/holiman/uint256"

// Vault is one collateralized-debt position as reported by the on-chain
// registry. IDs are dense and zero-based; the registry assigns them
// sequentially up to its current maximum. Once Closed is true it never
// reverts — the registry only ever closes vaults, it does not reopen them.
type Vault struct {
	ID         uint64
	Debt       *uint256.Int // debt asset, 18 decimals
	Collateral *uint256.Int // collateral asset, 18 decimals
	Closed     bool
}

// Order is a resting sell order on the order book. Price is an 18-decimal
// fixed-point value; a zero price means the book has no resting sell orders,
// not a free fill.
type Order struct {
	ID       *uint256.Int
	Price    *uint256.Int
	Quantity *uint256.Int
}

// LiquidationRequest carries the arguments of a liquidate() call.
type LiquidationRequest struct {
	VaultID        uint64
	OrderBookIndex uint64
	Price          *uint256.Int
	Debt           *uint256.Int
}

// SubmittedLiquidation is the fire-and-forget result of a liquidation
// transaction send. No receipt confirmation is waited on.
type SubmittedLiquidation struct {
	TxHash   string
	GasLimit uint64
}
