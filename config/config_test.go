package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader reads so host state cannot leak
// into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WEB3_HTTP_PROVIDER_URL", "VAULTS_ADDRESS", "ORDERBOOK_ADDRESS",
		"LIQUIDATOR_ADDRESS", "ETHEREUM_ADMIN_PRIVATE_KEY",
		"ETHEREUM_ADMIN_ACCOUNT", "ORDERBOOK_INDEX", "MINIMUM_PROFIT",
		"LIQUIDATION_FREQUENCY", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func validEnv(t *testing.T) {
	t.Helper()
	clearEnv(t)
	t.Setenv("WEB3_HTTP_PROVIDER_URL", "http://localhost:8545")
	t.Setenv("VAULTS_ADDRESS", "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	t.Setenv("ORDERBOOK_ADDRESS", "0x4D97DCd97eC945f40cF65F87097ACe5EA0476045")
	t.Setenv("LIQUIDATOR_ADDRESS", "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E")
	t.Setenv("ETHEREUM_ADMIN_PRIVATE_KEY", "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")
	t.Setenv("ETHEREUM_ADMIN_ACCOUNT", "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23")
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Second, cfg.Interval())
	assert.Equal(t, "0", cfg.Liquidation.MinimumProfit)
	assert.Equal(t, DefaultFlashLoanFeeRate, cfg.Liquidation.FlashLoanFeeRate)
	assert.Equal(t, DefaultMaxFailureStreak, cfg.Liquidation.MaxFailureStreak)
	assert.Equal(t, float64(DefaultReadsPerSecond), cfg.RPC.ReadsPerSecond)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	fee, err := cfg.FlashLoanFeeRateWad()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(9e14), fee)
}

func TestLoad_EnvOverrides(t *testing.T) {
	validEnv(t)
	t.Setenv("ORDERBOOK_INDEX", "3")
	t.Setenv("MINIMUM_PROFIT", "5000000000000000000")
	t.Setenv("LIQUIDATION_FREQUENCY", "60")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(3), cfg.Liquidation.OrderBookIndex)
	assert.Equal(t, 60*time.Second, cfg.Interval())
	assert.Equal(t, "debug", cfg.Log.Level)

	minProfit, err := cfg.MinimumProfitWad()
	require.NoError(t, err)
	assert.Equal(t, new(uint256.Int).Mul(uint256.NewInt(5), uint256.NewInt(1e18)), minProfit)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpc:
  url: http://localhost:8545
contracts:
  vaults: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
  orderbook: "0x4D97DCd97eC945f40cF65F87097ACe5EA0476045"
  liquidator: "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"
account:
  admin: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
liquidation:
  orderbook_index: 2
  interval_seconds: 15
`), 0o600))
	t.Setenv("ETHEREUM_ADMIN_PRIVATE_KEY", "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(2), cfg.Liquidation.OrderBookIndex)
	assert.Equal(t, 15*time.Second, cfg.Interval())
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	validEnv(t)
	t.Setenv("WEB3_HTTP_PROVIDER_URL", "http://env:8545")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpc:\n  url: http://file:8545\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:8545", cfg.RPC.URL)
}

func TestLoad_MissingFileIsTolerated(t *testing.T) {
	validEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*testing.T)
		wantErr string
	}{
		{"missing rpc url", func(t *testing.T) { t.Setenv("WEB3_HTTP_PROVIDER_URL", "") }, "WEB3_HTTP_PROVIDER_URL"},
		{"bad vaults address", func(t *testing.T) { t.Setenv("VAULTS_ADDRESS", "not-an-address") }, "VAULTS_ADDRESS"},
		{"bad orderbook address", func(t *testing.T) { t.Setenv("ORDERBOOK_ADDRESS", "0x123") }, "ORDERBOOK_ADDRESS"},
		{"bad liquidator address", func(t *testing.T) { t.Setenv("LIQUIDATOR_ADDRESS", "") }, "LIQUIDATOR_ADDRESS"},
		{"missing private key", func(t *testing.T) { t.Setenv("ETHEREUM_ADMIN_PRIVATE_KEY", "") }, "ETHEREUM_ADMIN_PRIVATE_KEY"},
		{"bad admin account", func(t *testing.T) { t.Setenv("ETHEREUM_ADMIN_ACCOUNT", "alice") }, "ETHEREUM_ADMIN_ACCOUNT"},
		{"bad minimum profit", func(t *testing.T) { t.Setenv("MINIMUM_PROFIT", "-5") }, "minimum_profit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			validEnv(t)
			tc.mutate(t)

			cfg, err := Load("")
			require.NoError(t, err)
			err = cfg.Validate()
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad_BadNumericEnv(t *testing.T) {
	validEnv(t)
	t.Setenv("LIQUIDATION_FREQUENCY", "every minute")

	_, err := Load("")
	assert.ErrorContains(t, err, "LIQUIDATION_FREQUENCY")
}
