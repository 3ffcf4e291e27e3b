// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrOverflow is returned when an arithmetic operation leaves the int64 range.
	ErrOverflow = errors.New("amount overflow")

	// ErrDivisionByZero is returned by Div when the divisor is zero.
	ErrDivisionByZero = errors.New("amount division by zero")
)

// Amount is a quantity of whole currency units.
// Arithmetic is checked: operations fail with ErrOverflow instead of wrapping.
type Amount int64

// Zero is the additive identity.
const Zero Amount = 0

// Int64 returns the underlying value.
func (a Amount) Int64() int64 {
	return int64(a)
}

// IsNegative returns true if the amount is below zero
func (a Amount) IsNegative() bool {
	return a < 0
}

// String returns the decimal representation
func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// Add returns a+b.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return sum, nil
}

// Sub returns a-b.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff := a - b
	if (b > 0 && diff > a) || (b < 0 && diff < a) {
		return 0, fmt.Errorf("%w: %d - %d", ErrOverflow, a, b)
	}
	return diff, nil
}

// Mul returns a*b.
func (a Amount) Mul(b Amount) (Amount, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	// MinInt64 * -1 is the one product the division check below cannot see.
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	product := a * b
	if product/b != a {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return product, nil
}

// Div returns a/b truncated toward zero.
func (a Amount) Div(b Amount) (Amount, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, fmt.Errorf("%w: %d / %d", ErrOverflow, a, b)
	}
	return a / b, nil
}

// Max returns the larger of a and b.
func (a Amount) Max(b Amount) Amount {
	if b > a {
		return b
	}
	return a
}


// Sum adds amounts left to right, failing on the first overflow.
func Sum(amounts ...Amount) (Amount, error) {
	total := Zero
	for _, amt := range amounts {
		next, err := total.Add(amt)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}
