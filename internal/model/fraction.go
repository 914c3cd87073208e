package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fraction is a share of one working day. Valid values are the multiples of
// 0.25 in [0, 1]; sums across days may exceed 1.
type Fraction struct {
	d decimal.Decimal
}

var (
	Zero    = Fraction{d: decimal.Zero}
	Quarter = Fraction{d: decimal.New(25, -2)}
	One     = Fraction{d: decimal.NewFromInt(1)}
)

var four = decimal.NewFromInt(4)

// FractionFromFloat converts a wire float. Float noise is rounded away at
// four decimal places, which is finer than any valid step.
func FractionFromFloat(f float64) Fraction {
	return Fraction{d: decimal.NewFromFloat(f).Round(4)}
}

// FractionFromInt returns n whole days.
func FractionFromInt(n int) Fraction {
	return Fraction{d: decimal.NewFromInt(int64(n))}
}

// ParseFraction parses a decimal string such as "0.75".
func ParseFraction(s string) (Fraction, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid fraction %q: %w", s, err)
	}
	return Fraction{d: d}, nil
}

// Valid reports whether f is a multiple of 0.25 within [0, 1].
func (f Fraction) Valid() bool {
	if f.d.IsNegative() || f.d.GreaterThan(One.d) {
		return false
	}
	return f.d.Mul(four).IsInteger()
}

func (f Fraction) Add(o Fraction) Fraction { return Fraction{d: f.d.Add(o.d)} }
func (f Fraction) Sub(o Fraction) Fraction { return Fraction{d: f.d.Sub(o.d)} }

func (f Fraction) Equal(o Fraction) bool { return f.d.Equal(o.d) }
func (f Fraction) GreaterThan(o Fraction) bool { return f.d.GreaterThan(o.d) }
func (f Fraction) LessThan(o Fraction) bool { return f.d.LessThan(o.d) }
func (f Fraction) IsZero() bool { return f.d.IsZero() }
func (f Fraction) IsNegative() bool { return f.d.IsNegative() }

func (f Fraction) String() string {
	return f.d.StringFixed(2)
}

// MarshalJSON encodes f as a bare JSON number.
func (f Fraction) MarshalJSON() ([]byte, error) {
	return []byte(f.d.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal.
func (f *Fraction) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	f.d = d.Round(4)
	return nil
}
