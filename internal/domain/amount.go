package domain

import "math"

// MaxAmount keeps every stored amount inside a signed 64-bit column.
const MaxAmount uint64 = math.MaxInt64

// AddAmount returns a+b or ErrAmountOverflow.
func AddAmount(a, b uint64) (uint64, error) {
	if a > MaxAmount || b > MaxAmount-a {
		return 0, ErrAmountOverflow
	}
	return a + b, nil
}
