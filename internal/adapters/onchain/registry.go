package onchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/domain"
)

// VaultCount returns the registry's current max vault ID.
func (c *Client) VaultCount(ctx context.Context) (uint64, error) {
	values, err := c.call(ctx, c.vaults, vaultsABI, "getID")
	if err != nil {
		return 0, fmt.Errorf("onchain: getID: %w", err)
	}

	id, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("onchain: getID: unexpected abi type %T", values[0])
	}
	if !id.IsUint64() {
		return 0, fmt.Errorf("onchain: getID: vault count %s out of range", id)
	}
	return id.Uint64(), nil
}

// Vault reads one vault's debt, collateral, and closed flag.
func (c *Client) Vault(ctx context.Context, id uint64) (domain.Vault, error) {
	values, err := c.call(ctx, c.vaults, vaultsABI, "getVault", new(big.Int).SetUint64(id))
	if err != nil {
		return domain.Vault{}, fmt.Errorf("onchain: getVault %d: %w", id, err)
	}
	if len(values) != 3 {
		return domain.Vault{}, fmt.Errorf("onchain: getVault %d: expected 3 outputs, got %d", id, len(values))
	}

	debt, err := asUint256(values[0], "debt")
	if err != nil {
		return domain.Vault{}, fmt.Errorf("onchain: getVault %d: %w", id, err)
	}
	collateral, err := asUint256(values[1], "collateral")
	if err != nil {
		return domain.Vault{}, fmt.Errorf("onchain: getVault %d: %w", id, err)
	}
	closed, err := asBool(values[2], "closed")
	if err != nil {
		return domain.Vault{}, fmt.Errorf("onchain: getVault %d: %w", id, err)
	}

	return domain.Vault{
		ID:         id,
		Debt:       debt,
		Collateral: collateral,
		Closed:     closed,
	}, nil
}

// DetectLiquidation reports whether the registry flags the vault as
// liquidatable.
func (c *Client) DetectLiquidation(ctx context.Context, id uint64) (bool, error) {
	values, err := c.call(ctx, c.vaults, vaultsABI, "detectLiquidation", new(big.Int).SetUint64(id))
	if err != nil {
		return false, fmt.Errorf("onchain: detectLiquidation %d: %w", id, err)
	}
	return asBool(values[0], "detectLiquidation")
}

// SellHead returns the order ID at the head of the sell queue.
func (c *Client) SellHead(ctx context.Context, orderBookIndex uint64) (*uint256.Int, error) {
	values, err := c.call(ctx, c.orderBook, orderBookABI, "getSellHead", new(big.Int).SetUint64(orderBookIndex))
	if err != nil {
		return nil, fmt.Errorf("onchain: getSellHead %d: %w", orderBookIndex, err)
	}
	return asUint256(values[0], "order id")
}

// SellOrder returns the resting sell order with the given ID.
func (c *Client) SellOrder(ctx context.Context, orderID *uint256.Int) (domain.Order, error) {
	values, err := c.call(ctx, c.orderBook, orderBookABI, "getSell", orderID.ToBig())
	if err != nil {
		return domain.Order{}, fmt.Errorf("onchain: getSell %s: %w", orderID.Dec(), err)
	}
	if len(values) != 2 {
		return domain.Order{}, fmt.Errorf("onchain: getSell %s: expected 2 outputs, got %d", orderID.Dec(), len(values))
	}

	price, err := asUint256(values[0], "price")
	if err != nil {
		return domain.Order{}, fmt.Errorf("onchain: getSell %s: %w", orderID.Dec(), err)
	}
	quantity, err := asUint256(values[1], "quantity")
	if err != nil {
		return domain.Order{}, fmt.Errorf("onchain: getSell %s: %w", orderID.Dec(), err)
	}

	return domain.Order{
		ID:       new(uint256.Int).Set(orderID),
		Price:    price,
		Quantity: quantity,
	}, nil
}
