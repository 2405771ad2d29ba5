package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Money is an amount in cents. Constructing from a decimal rounds to two
// places, so every Money value is exact and arithmetic never drifts.
type Money int64

// NewMoney builds a Money from a decimal amount, rounding half away
// from zero to two decimal places.
func NewMoney(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// Float returns the decimal representation.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// MulQuantity returns the line total for a quantity of units.
func (m Money) MulQuantity(quantity int) Money {
	return m * Money(quantity)
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Float())
}

// MarshalJSON renders Money as a plain decimal number, e.g. 199.99.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', 2, 64)), nil
}

// UnmarshalJSON accepts a decimal number and rounds it to cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return NewError(KindInvalidArgument, "invalid money amount")
	}
	*m = NewMoney(v)
	return nil
}
