package domain

// wad.go — 18-decimal fixed-point arithmetic.
//
// Every monetary quantity in the protocol is an unsigned integer scaled by
// 10^18. All arithmetic goes through uint256 so that overflow and underflow
// are explicit results, never silent wraps.

import "github.com/holiman/uint256"

var wad = uint256.NewInt(1e18)

// MulWad returns x*y/1e18 with the division truncating toward zero.
// overflow reports whether the quotient does not fit in 256 bits.
func MulWad(x, y *uint256.Int) (res *uint256.Int, overflow bool) {
	res = new(uint256.Int)
	_, overflow = res.MulDivOverflow(x, y, wad)
	return res, overflow
}

// ParseWad parses a base-10 unsigned integer that is already scaled by 1e18
// (e.g. "1000000000000000000" is 1.0).
func ParseWad(s string) (*uint256.Int, error) {
	return uint256.FromDecimal(s)
}
