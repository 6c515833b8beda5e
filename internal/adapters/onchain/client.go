package onchain

// client.go — go-ethereum gateway for the vault registry, order book, and
// liquidator contracts.
//
// Reads are packed ABI calls through CallContract, throttled by a shared rate
// limiter so a large vault sweep cannot hammer the RPC endpoint. The single
// write, liquidate(), follows estimate-gas → sign → send and does not wait
// for a receipt.

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	"golang.org/x/time/rate"
)

// ErrAccountMismatch means the address derived from the configured private
// key is not the configured admin account. Fatal at startup.
var ErrAccountMismatch = errors.New("operating account does not match admin account")

const (
	// Gas buffer applied on top of the node's estimate.
	gasBufferNum = 12
	gasBufferDen = 10

	defaultReadsPerSecond = 20
)

// Contract ABIs
var (
	vaultsABI     abi.ABI
	orderBookABI  abi.ABI
	liquidatorABI abi.ABI
)

func init() {
	var err error

	vaultsABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "getID",
			"type": "function",
			"stateMutability": "view",
			"inputs": [],
			"outputs": [{"name": "", "type": "uint256"}]
		},
		{
			"name": "getVault",
			"type": "function",
			"stateMutability": "view",
			"inputs": [{"name": "id", "type": "uint256"}],
			"outputs": [
				{"name": "debt", "type": "uint256"},
				{"name": "collateral", "type": "uint256"},
				{"name": "closed", "type": "bool"}
			]
		},
		{
			"name": "detectLiquidation",
			"type": "function",
			"stateMutability": "view",
			"inputs": [{"name": "id", "type": "uint256"}],
			"outputs": [{"name": "", "type": "bool"}]
		}
	]`))
	if err != nil {
		panic("vaults abi parse: " + err.Error())
	}

	orderBookABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "getSellHead",
			"type": "function",
			"stateMutability": "view",
			"inputs": [{"name": "index", "type": "uint256"}],
			"outputs": [{"name": "", "type": "uint256"}]
		},
		{
			"name": "getSell",
			"type": "function",
			"stateMutability": "view",
			"inputs": [{"name": "orderID", "type": "uint256"}],
			"outputs": [
				{"name": "price", "type": "uint256"},
				{"name": "quantity", "type": "uint256"}
			]
		}
	]`))
	if err != nil {
		panic("orderbook abi parse: " + err.Error())
	}

	liquidatorABI, err = abi.JSON(strings.NewReader(`[
		{
			"name": "liquidate",
			"type": "function",
			"inputs": [
				{"name": "id", "type": "uint256"},
				{"name": "orderbookIndex", "type": "uint256"},
				{"name": "price", "type": "uint256"},
				{"name": "debt", "type": "uint256"}
			],
			"outputs": []
		}
	]`))
	if err != nil {
		panic("liquidator abi parse: " + err.Error())
	}
}

// Options configures the gateway.
type Options struct {
	RPCURL            string
	VaultsAddress     string
	OrderBookAddress  string
	LiquidatorAddress string

	// PrivateKey is the operating account key, hex with or without 0x.
	PrivateKey string
	// AdminAddress is the account the operator expects to liquidate from.
	// New fails with ErrAccountMismatch if the key derives anything else.
	AdminAddress string

	// ReadsPerSecond throttles registry and order book calls. 0 uses a
	// default.
	ReadsPerSecond float64
}

// Client implements ports.VaultRegistry, ports.OrderBook, and
// ports.Liquidator over one RPC connection.
type Client struct {
	eth     *ethclient.Client
	chainID *big.Int
	limiter *rate.Limiter

	key     *ecdsa.PrivateKey
	account common.Address

	vaults     common.Address
	orderBook  common.Address
	liquidator common.Address
}

// New dials the RPC endpoint, derives and verifies the operating account, and
// fetches the chain ID used for transaction signing.
func New(ctx context.Context, opts Options) (*Client, error) {
	key, account, err := operatorFromKey(opts.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("onchain: %w", err)
	}

	if !strings.EqualFold(account.Hex(), opts.AdminAddress) {
		return nil, fmt.Errorf("onchain: derived %s, expected %s: %w",
			account.Hex(), opts.AdminAddress, ErrAccountMismatch)
	}

	eth, err := ethclient.DialContext(ctx, opts.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("onchain: dial rpc %s: %w", opts.RPCURL, err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("onchain: chain id: %w", err)
	}

	rps := opts.ReadsPerSecond
	if rps <= 0 {
		rps = defaultReadsPerSecond
	}

	slog.Info("chain gateway connected",
		"rpc", opts.RPCURL,
		"chain_id", chainID,
		"account", account.Hex(),
	)

	return &Client{
		eth:        eth,
		chainID:    chainID,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		key:        key,
		account:    account,
		vaults:     common.HexToAddress(opts.VaultsAddress),
		orderBook:  common.HexToAddress(opts.OrderBookAddress),
		liquidator: common.HexToAddress(opts.LiquidatorAddress),
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Account returns the verified operating account address.
func (c *Client) Account() common.Address {
	return c.account
}

// operatorFromKey parses a hex private key and derives its address.
func operatorFromKey(privateKeyHex string) (*ecdsa.PrivateKey, common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}

// call packs a read, executes it against the latest block, and unpacks the
// outputs.
func (c *Client) call(ctx context.Context, to common.Address, contract abi.ABI, method string, args ...any) ([]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	values, err := contract.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func asUint256(v any, what string) (*uint256.Int, error) {
	b, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected abi type %T", what, v)
	}
	u, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("%s: value exceeds 256 bits", what)
	}
	return u, nil
}

func asBool(v any, what string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected abi type %T", what, v)
	}
	return b, nil
}
