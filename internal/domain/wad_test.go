package domain

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulWad_TruncatesTowardZero(t *testing.T) {
	// 3 * 1 / 1e18 = 0 with remainder: integer division truncates.
	res, overflow := MulWad(uint256.NewInt(3), uint256.NewInt(1))
	require.False(t, overflow)
	assert.True(t, res.IsZero())

	// 1.5 * 3 = 4.5 exactly at 18 decimals.
	oneAndHalf := uint256.NewInt(1_500_000_000_000_000_000)
	res, overflow = MulWad(oneAndHalf, uint256.NewInt(3e18))
	require.False(t, overflow)
	assert.Equal(t, uint256.NewInt(4_500_000_000_000_000_000), res)
}

func TestMulWad_Overflow(t *testing.T) {
	max := new(uint256.Int).Sub(new(uint256.Int), uint256.NewInt(1))
	_, overflow := MulWad(max, max)
	assert.True(t, overflow)
}

func TestParseWad(t *testing.T) {
	v, err := ParseWad("900000000000000")
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(9e14), v)

	_, err = ParseWad("-1")
	assert.Error(t, err)

	_, err = ParseWad("")
	assert.Error(t, err)
}
