package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full liquidator configuration.
type Config struct {
	RPC         RPCConfig         `yaml:"rpc"`
	Contracts   ContractsConfig   `yaml:"contracts"`
	Account     AccountConfig     `yaml:"account"`
	Liquidation LiquidationConfig `yaml:"liquidation"`
	Log         LogConfig         `yaml:"log"`
}

// RPCConfig holds the chain endpoint settings.
type RPCConfig struct {
	URL            string  `yaml:"url"`
	ReadsPerSecond float64 `yaml:"reads_per_second"`
}

// ContractsConfig holds the three contract addresses.
type ContractsConfig struct {
	Vaults     string `yaml:"vaults"`
	OrderBook  string `yaml:"orderbook"`
	Liquidator string `yaml:"liquidator"`
}

// AccountConfig holds the operating account credentials. The private key
// should come from the environment, not the YAML file.
type AccountConfig struct {
	PrivateKey string `yaml:"private_key"`
	Admin      string `yaml:"admin"`
}

// LiquidationConfig controls the decision loop.
type LiquidationConfig struct {
	OrderBookIndex   uint64 `yaml:"orderbook_index"`
	MinimumProfit    string `yaml:"minimum_profit"`      // 18-decimal fixed point
	FlashLoanFeeRate string `yaml:"flash_loan_fee_rate"` // per 1e18 borrowed
	IntervalSeconds  int    `yaml:"interval_seconds"`
	MaxFailureStreak int    `yaml:"max_failure_streak"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default values for optional fields.
const (
	// DefaultFlashLoanFeeRate is 0.09% in 18-decimal fixed point, the
	// flash-loan provider's per-unit fee.
	DefaultFlashLoanFeeRate = "900000000000000"

	DefaultIntervalSeconds  = 30
	DefaultMaxFailureStreak = 5
	DefaultReadsPerSecond   = 20
)

// Load reads the optional YAML file, loads .env if present, and applies
// environment overrides and defaults. Call Validate before using the result.
func Load(path string) (*Config, error) {
	// Load .env if present (silent when there is no file).
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// Interval returns the poll interval as a time.Duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Liquidation.IntervalSeconds) * time.Second
}

// MinimumProfitWad parses the minimum-profit margin.
func (c *Config) MinimumProfitWad() (*uint256.Int, error) {
	v, err := uint256.FromDecimal(c.Liquidation.MinimumProfit)
	if err != nil {
		return nil, fmt.Errorf("config: minimum_profit %q: %w", c.Liquidation.MinimumProfit, err)
	}
	return v, nil
}

// FlashLoanFeeRateWad parses the flash-loan fee rate.
func (c *Config) FlashLoanFeeRateWad() (*uint256.Int, error) {
	v, err := uint256.FromDecimal(c.Liquidation.FlashLoanFeeRate)
	if err != nil {
		return nil, fmt.Errorf("config: flash_loan_fee_rate %q: %w", c.Liquidation.FlashLoanFeeRate, err)
	}
	return v, nil
}

// Validate checks that all required fields are present and well formed.
// The names in the errors are the environment variable names, since that is
// how deployments configure the bot.
func (c *Config) Validate() error {
	if c.RPC.URL == "" {
		return errors.New("config: WEB3_HTTP_PROVIDER_URL is required")
	}
	if !common.IsHexAddress(c.Contracts.Vaults) {
		return fmt.Errorf("config: VAULTS_ADDRESS %q is not a valid address", c.Contracts.Vaults)
	}
	if !common.IsHexAddress(c.Contracts.OrderBook) {
		return fmt.Errorf("config: ORDERBOOK_ADDRESS %q is not a valid address", c.Contracts.OrderBook)
	}
	if !common.IsHexAddress(c.Contracts.Liquidator) {
		return fmt.Errorf("config: LIQUIDATOR_ADDRESS %q is not a valid address", c.Contracts.Liquidator)
	}
	if c.Account.PrivateKey == "" {
		return errors.New("config: ETHEREUM_ADMIN_PRIVATE_KEY is required")
	}
	if !common.IsHexAddress(c.Account.Admin) {
		return fmt.Errorf("config: ETHEREUM_ADMIN_ACCOUNT %q is not a valid address", c.Account.Admin)
	}
	if _, err := c.MinimumProfitWad(); err != nil {
		return err
	}
	if _, err := c.FlashLoanFeeRateWad(); err != nil {
		return err
	}
	if c.Liquidation.IntervalSeconds <= 0 {
		return fmt.Errorf("config: LIQUIDATION_FREQUENCY must be positive, got %d", c.Liquidation.IntervalSeconds)
	}
	return nil
}

// applyEnvOverrides overrides file values with environment variables when set.
// The variable names are the deployment's existing .env contract.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WEB3_HTTP_PROVIDER_URL"); v != "" {
		cfg.RPC.URL = v
	}
	if v := os.Getenv("VAULTS_ADDRESS"); v != "" {
		cfg.Contracts.Vaults = v
	}
	if v := os.Getenv("ORDERBOOK_ADDRESS"); v != "" {
		cfg.Contracts.OrderBook = v
	}
	if v := os.Getenv("LIQUIDATOR_ADDRESS"); v != "" {
		cfg.Contracts.Liquidator = v
	}
	if v := os.Getenv("ETHEREUM_ADMIN_PRIVATE_KEY"); v != "" {
		cfg.Account.PrivateKey = v
	}
	if v := os.Getenv("ETHEREUM_ADMIN_ACCOUNT"); v != "" {
		cfg.Account.Admin = v
	}
	if v := os.Getenv("ORDERBOOK_INDEX"); v != "" {
		idx, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: ORDERBOOK_INDEX %q: %w", v, err)
		}
		cfg.Liquidation.OrderBookIndex = idx
	}
	if v := os.Getenv("MINIMUM_PROFIT"); v != "" {
		cfg.Liquidation.MinimumProfit = v
	}
	if v := os.Getenv("LIQUIDATION_FREQUENCY"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: LIQUIDATION_FREQUENCY %q: %w", v, err)
		}
		cfg.Liquidation.IntervalSeconds = secs
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// setDefaults fills optional fields with sensible values.
func setDefaults(cfg *Config) {
	if cfg.RPC.ReadsPerSecond <= 0 {
		cfg.RPC.ReadsPerSecond = DefaultReadsPerSecond
	}
	if cfg.Liquidation.MinimumProfit == "" {
		cfg.Liquidation.MinimumProfit = "0"
	}
	if cfg.Liquidation.FlashLoanFeeRate == "" {
		cfg.Liquidation.FlashLoanFeeRate = DefaultFlashLoanFeeRate
	}
	if cfg.Liquidation.IntervalSeconds <= 0 {
		cfg.Liquidation.IntervalSeconds = DefaultIntervalSeconds
	}
	if cfg.Liquidation.MaxFailureStreak <= 0 {
		cfg.Liquidation.MaxFailureStreak = DefaultMaxFailureStreak
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
