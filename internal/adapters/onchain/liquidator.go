package onchain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/domain"
)

// Liquidate packs a liquidate() call, estimates its gas, signs it with the
// operating key, and sends it. The transaction is fire-and-forget: the hash
// is returned without waiting for a receipt.
func (c *Client) Liquidate(ctx context.Context, req domain.LiquidationRequest) (domain.SubmittedLiquidation, error) {
	callData, err := liquidatorABI.Pack("liquidate",
		new(big.Int).SetUint64(req.VaultID),
		new(big.Int).SetUint64(req.OrderBookIndex),
		req.Price.ToBig(),
		req.Debt.ToBig(),
	)
	if err != nil {
		return domain.SubmittedLiquidation{}, fmt.Errorf("onchain: pack liquidate: %w", err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.account)
	if err != nil {
		return domain.SubmittedLiquidation{}, fmt.Errorf("onchain: nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return domain.SubmittedLiquidation{}, fmt.Errorf("onchain: gas price: %w", err)
	}

	// An estimate failure usually means the call would revert (the vault
	// was closed or liquidated by someone else since we read it), so the
	// submission is abandoned rather than sent with a guessed limit.
	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:     c.account,
		To:       &c.liquidator,
		GasPrice: gasPrice,
		Data:     callData,
	})
	if err != nil {
		return domain.SubmittedLiquidation{}, fmt.Errorf("onchain: estimate gas: %w", err)
	}
	gasLimit = gasLimit * gasBufferNum / gasBufferDen

	tx := types.NewTransaction(nonce, c.liquidator, big.NewInt(0), gasLimit, gasPrice, callData)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.key)
	if err != nil {
		return domain.SubmittedLiquidation{}, fmt.Errorf("onchain: sign tx: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signedTx); err != nil {
		return domain.SubmittedLiquidation{}, fmt.Errorf("onchain: send tx: %w", err)
	}

	return domain.SubmittedLiquidation{
		TxHash:   signedTx.Hash().Hex(),
		GasLimit: gasLimit,
	}, nil
}
