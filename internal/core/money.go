// Package core provides the invoice model and bounded decimal money.
//
// Money wraps a shopspring decimal and keeps every value inside the range of
// a 96-bit decimal mantissa, so arithmetic that leaves that range is reported
// as ErrArithmeticOverflow instead of silently growing.
package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point currency value.
type Money struct {
	d decimal.Decimal
}

var (
	// MaxMoney is the largest representable amount (2^96 - 1).
	MaxMoney = Money{d: decimal.RequireFromString("79228162514264337593543950335")}
	// MinMoney is the smallest representable amount.
	MinMoney = Money{d: MaxMoney.d.Neg()}

	Zero = Money{}
)

// NewMoney returns v * 10^exp, e.g. NewMoney(250, -2) is 2.50.
func NewMoney(v int64, exp int32) Money {
	return Money{d: decimal.New(v, exp)}
}

// ParseMoney parses a decimal string using either dot (12.34) or comma
// (12,34) as separator. Values outside [MinMoney, MaxMoney] are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	m, err := fromDecimal(d)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return m, nil
}

// MustParseMoney is ParseMoney for literals; it panics on error.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	if d.Abs().GreaterThan(MaxMoney.d) {
		return Zero, ErrArithmeticOverflow
	}
	return Money{d: d}, nil
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	return fromDecimal(m.d.Add(o.d))
}

// MulCount returns m * n.
func (m Money) MulCount(n uint32) (Money, error) {
	return fromDecimal(m.d.Mul(decimal.NewFromInt(int64(n))))
}

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// String formats the amount without trailing zeros beyond its own scale.
func (m Money) String() string { return m.d.String() }

// Decimal exposes the underlying value for exact arithmetic outside the
// bounded range, e.g. an accumulator that is range checked once at the end.
func (m Money) Decimal() decimal.Decimal { return m.d }

// MoneyFromDecimal range checks d.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	return fromDecimal(d)
}

// MarshalJSON encodes the amount as a JSON string to keep every digit.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.d.String())
}

// UnmarshalJSON accepts a JSON string or number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
