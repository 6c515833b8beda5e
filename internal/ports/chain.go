package ports

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/domain"
)

// VaultRegistry reads vault state from the registry contract.
type VaultRegistry interface {
	// VaultCount returns the current max vault ID (exclusive upper bound
	// of the dense ID range).
	VaultCount(ctx context.Context) (uint64, error)

	// Vault returns the debt, collateral, and closed flag for one vault.
	Vault(ctx context.Context, id uint64) (domain.Vault, error)

	// DetectLiquidation reports whether the vault is eligible for
	// liquidation under the registry's health condition.
	DetectLiquidation(ctx context.Context, id uint64) (bool, error)
}

// OrderBook reads the resting sell queue of the order book contract.
type OrderBook interface {
	// SellHead returns the order ID at the head of the best-price sell
	// queue for the given order book index.
	SellHead(ctx context.Context, orderBookIndex uint64) (*uint256.Int, error)

	// SellOrder returns the resting sell order with the given ID.
	SellOrder(ctx context.Context, orderID *uint256.Int) (domain.Order, error)
}

// Liquidator submits liquidation transactions to the liquidator contract.
type Liquidator interface {
	// Liquidate estimates gas for and sends a liquidate() transaction
	// from the operating account. It does not wait for a receipt.
	Liquidate(ctx context.Context, req domain.LiquidationRequest) (domain.SubmittedLiquidation, error)
}
