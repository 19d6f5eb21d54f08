// Package safemath provides overflow-checked int64 arithmetic for fee math.
package safemath

import (
	"errors"
	"math"

	"github.com/holiman/uint256"
)

var (
	// ErrOverflow is returned when a result is not representable as an int64
	ErrOverflow = errors.New("result outside int64 range")
	// ErrDivideByZero is returned when a fraction has a zero denominator
	ErrDivideByZero = errors.New("fraction divides by zero")
)

// AddExact returns a+b, or ErrOverflow if the sum does not fit an int64.
func AddExact(a, b int64) (int64, error) {
	sum := a + b
	// Overflow iff both operands have the same sign and the sum's sign differs.
	if (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0) {
		return 0, ErrOverflow
	}
	return sum, nil
}

// SubtractExact returns a-b, or ErrOverflow if the difference does not fit an int64.
func SubtractExact(a, b int64) (int64, error) {
	diff := a - b
	if (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0) {
		return 0, ErrOverflow
	}
	return diff, nil
}

// FractionMultiply returns n*v/d truncated toward zero.
//
// When n*v cannot overflow the product is computed in 64 bits. Otherwise the
// product and quotient are computed in 256 bits and narrowed back, failing
// with ErrOverflow if the quotient does not fit.
func FractionMultiply(n, d, v int64) (int64, error) {
	if d == 0 {
		return 0, ErrDivideByZero
	}
	un, uv, ud := magnitude(n), magnitude(v), magnitude(d)
	if uv == 0 || un <= math.MaxInt64/uv {
		return n * v / d, nil
	}

	negative := (n < 0) != (v < 0) != (d < 0)
	q := new(uint256.Int).Mul(uint256.NewInt(un), uint256.NewInt(uv))
	q.Div(q, uint256.NewInt(ud))
	if !q.IsUint64() {
		return 0, ErrOverflow
	}
	mag := q.Uint64()
	switch {
	case mag <= math.MaxInt64 && negative:
		return -int64(mag), nil
	case mag <= math.MaxInt64:
		return int64(mag), nil
	case negative && mag == 1<<63:
		return math.MinInt64, nil
	default:
		return 0, ErrOverflow
	}
}

func magnitude(x int64) uint64 {
	if x < 0 {
		return uint64(-(x + 1)) + 1
	}
	return uint64(x)
}
