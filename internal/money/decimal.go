package money

import (
	"errors"
	"fmt"
	"math"
)

// Decimal is a fixed-point amount with exactly four fractional digits, stored
// as a signed count of 1/10000 units. All arithmetic is range-checked; a
// Decimal never comes out of a wrapped or saturated operation.
type Decimal struct {
	units int64
}

// fracDigits is the fixed scale of every Decimal.
const fracDigits = 4

const unitsPerWhole = 10_000

var (
	// ErrInvalidSyntax reports text that is not a plain decimal number.
	ErrInvalidSyntax = errors.New("invalid decimal syntax")

	// ErrOverflow reports an addition or parse that exceeds the representable range.
	ErrOverflow = errors.New("decimal overflow")

	// ErrUnderflow reports a subtraction that exceeds the representable range.
	ErrUnderflow = errors.New("decimal underflow")
)

// Zero is the additive identity.
var Zero = Decimal{}

// Max returns the largest representable Decimal.
func Max() Decimal { return Decimal{units: math.MaxInt64} }

// Min returns the smallest (most negative) representable Decimal.
func Min() Decimal { return Decimal{units: math.MinInt64} }

// Parse converts text such as "1.5", "-0.0001" or "+42" into a Decimal.
// Fractional digits beyond the fourth are rounded half-to-even. Scientific
// notation, thousands separators and currency symbols are rejected.
func Parse(s string) (Decimal, error) {
	if s == "" {
		return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrInvalidSyntax)
	}

	neg := false
	i := 0
	switch s[0] {
	case '+':
		i = 1
	case '-':
		neg = true
		i = 1
	}
	if i == len(s) {
		return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrInvalidSyntax)
	}

	var whole uint64
	sawDigit := false
	for ; i < len(s) && s[i] != '.'; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrInvalidSyntax)
		}
		sawDigit = true
		d := uint64(c - '0')
		if whole > (math.MaxUint64-d)/10 {
			return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrOverflow)
		}
		whole = whole*10 + d
	}

	var frac uint64
	fracLen := 0
	roundUp := false
	if i < len(s) {
		i++ // consume '.'
		if i == len(s) && !sawDigit {
			return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrInvalidSyntax)
		}
		extra := byte(0)
		extraRest := false
		for ; i < len(s); i++ {
			c := s[i]
			if c < '0' || c > '9' {
				return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrInvalidSyntax)
			}
			sawDigit = true
			switch {
			case fracLen < fracDigits:
				frac = frac*10 + uint64(c-'0')
				fracLen++
			case fracLen == fracDigits:
				extra = c
				fracLen++
			default:
				if c != '0' {
					extraRest = true
				}
			}
		}
		switch {
		case extra == 0:
		case extra > '5':
			roundUp = true
		case extra == '5':
			roundUp = extraRest || frac%2 == 1
		}
	}
	if !sawDigit {
		return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrInvalidSyntax)
	}

	for ; fracLen < fracDigits; fracLen++ {
		frac *= 10
	}
	if roundUp {
		frac++
	}

	if whole > math.MaxUint64/unitsPerWhole {
		return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrOverflow)
	}
	units := whole * unitsPerWhole
	if units > math.MaxUint64-frac {
		return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrOverflow)
	}
	units += frac

	if neg {
		if units > uint64(math.MaxInt64)+1 {
			return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrOverflow)
		}
		return Decimal{units: -int64(units)}, nil
	}
	if units > uint64(math.MaxInt64) {
		return Decimal{}, fmt.Errorf("parse %q: %w", s, ErrOverflow)
	}
	return Decimal{units: int64(units)}, nil
}

// MustParse is a test helper that panics on malformed input.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// CheckedAdd returns d+o, or ErrOverflow if the sum leaves the representable range.
func (d Decimal) CheckedAdd(o Decimal) (Decimal, error) {
	sum := d.units + o.units
	if (o.units > 0 && sum < d.units) || (o.units < 0 && sum > d.units) {
		return Decimal{}, ErrOverflow
	}
	return Decimal{units: sum}, nil
}

// CheckedSub returns d-o, or ErrUnderflow if the difference leaves the
// representable range.
func (d Decimal) CheckedSub(o Decimal) (Decimal, error) {
	diff := d.units - o.units
	if (o.units < 0 && diff < d.units) || (o.units > 0 && diff > d.units) {
		return Decimal{}, ErrUnderflow
	}
	return Decimal{units: diff}, nil
}

// Cmp returns -1, 0 or 1 as d is less than, equal to or greater than o.
func (d Decimal) Cmp(o Decimal) int {
	switch {
	case d.units < o.units:
		return -1
	case d.units > o.units:
		return 1
	default:
		return 0
	}
}

// Less reports whether d is strictly less than o.
func (d Decimal) Less(o Decimal) bool { return d.units < o.units }

// IsNegative reports whether d is strictly below zero.
func (d Decimal) IsNegative() bool { return d.units < 0 }

// IsZero reports whether d is exactly zero.
func (d Decimal) IsZero() bool { return d.units == 0 }

// String renders the amount with all four fractional digits, e.g. "1.5000".
func (d Decimal) String() string {
	u := uint64(d.units)
	sign := ""
	if d.units < 0 {
		sign = "-"
		u = -u
	}
	return fmt.Sprintf("%s%d.%04d", sign, u/unitsPerWhole, u%unitsPerWhole)
}

// MarshalText renders the canonical four-digit form.
func (d Decimal) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the same forms accepted by Parse.
func (d *Decimal) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON renders the amount as a JSON string to avoid float truncation.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}
