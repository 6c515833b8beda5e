package liquidation

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/AsherFeldman1/4xyz-Liquidation-Bot/internal/ports"
)

// ErrNoLiquidity means the order book has no resting sell orders, so there is
// no counterparty to source the flash-borrowed debt asset against.
var ErrNoLiquidity = errors.New("no liquidity to trade for debt on order book")

// PriceOracle reads the best current ask for the debt asset from the order
// book. It does not retry; the caller decides whether a failure aborts the
// candidate or the pass.
type PriceOracle struct {
	book  ports.OrderBook
	index uint64
}

// NewPriceOracle returns an oracle bound to one order book index.
func NewPriceOracle(book ports.OrderBook, orderBookIndex uint64) *PriceOracle {
	return &PriceOracle{book: book, index: orderBookIndex}
}

// GetBestAsk returns the price of the order at the head of the sell queue.
// A zero price is reported as ErrNoLiquidity, never as a valid price.
func (o *PriceOracle) GetBestAsk(ctx context.Context) (*uint256.Int, error) {
	orderID, err := o.book.SellHead(ctx, o.index)
	if err != nil {
		return nil, fmt.Errorf("oracle: sell head: %w", err)
	}

	order, err := o.book.SellOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("oracle: sell order %s: %w", orderID.Dec(), err)
	}

	if order.Price == nil || order.Price.IsZero() {
		return nil, ErrNoLiquidity
	}
	return order.Price, nil
}
