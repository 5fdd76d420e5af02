package calculator

import (
	"errors"
	"fmt"
	"math"
)

var ErrOverflow = errors.New("amount out of range")

// AddAmounts returns a+b, or ErrOverflow when the result falls outside
// ±math.MaxInt64. math.MinInt64 is excluded so every balance can be negated
// when it enters a settlement queue.
func AddAmounts(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) || sum == math.MinInt64 {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return sum, nil
}
