package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 2

var (
	// ErrInvalidAmount is returned when an input cannot be represented as an Amount.
	ErrInvalidAmount = errors.New("money: invalid amount")

	minorUnit = decimal.New(1, Scale)
	maxMinor  = decimal.NewFromInt(math.MaxInt64)
	minMinor  = decimal.NewFromInt(math.MinInt64)
)

// Amount is a monetary value counted in minor units (1/100 of the currency unit).
type Amount int64

// FromMajor converts whole currency units into an Amount.
func FromMajor(units int64) Amount {
	return Amount(units * 100)
}

// FromDecimal converts a decimal value. More than two fractional digits are rejected.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	scaled := d.Mul(minorUnit)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), Scale)
	}
	return fromMinor(scaled)
}

// fromMinor converts a whole count of minor units, rejecting values outside int64.
func fromMinor(units decimal.Decimal) (Amount, error) {
	if units.GreaterThan(maxMinor) || units.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %s minor units out of range", ErrInvalidAmount, units.String())
	}
	return Amount(units.IntPart()), nil
}

// Parse reads a decimal string such as "5000" or "149.90".
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return FromDecimal(d)
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount with exactly two fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// Positive reports whether the amount is greater than zero.
func (a Amount) Positive() bool {
	return a > 0
}

// MarshalJSON renders the amount as a JSON number with two fractional digits.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Value stores the amount as an integer count of minor units.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}

// Scan reads an integer count of minor units.
func (a *Amount) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = 0
	case int64:
		*a = Amount(v)
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", string(v), err)
		}
		amount, err := fromMinor(d.Truncate(0))
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", string(v), err)
		}
		*a = amount
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", v, err)
		}
		amount, err := fromMinor(d.Truncate(0))
		if err != nil {
			return fmt.Errorf("money: scan %q: %w", v, err)
		}
		*a = amount
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}
	return nil
}

// Sum adds amounts.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, a := range amounts {
		total += a
	}
	return total
}
