package main

import (
	"context"
	"log/slog"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/domain"
)

// dryRunLiquidator satisfies ports.Liquidator without touching the chain, so
// -dry-run exercises the full decision path but submits nothing.
type dryRunLiquidator struct{}

func (dryRunLiquidator) Liquidate(_ context.Context, req domain.LiquidationRequest) (domain.SubmittedLiquidation, error) {
	slog.Info("dry-run: would liquidate",
		"vault", req.VaultID,
		"orderbook_index", req.OrderBookIndex,
		"price", req.Price.Dec(),
		"debt", req.Debt.Dec(),
	)
	return domain.SubmittedLiquidation{TxHash: "dry-run"}, nil
}
