// Package rational implements exact, non-negative rational arithmetic for
// frame-rate and send-time computations that must not accumulate floating
// point drift over millions of iterations (e.g. 30000/1001 NTSC rates).
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package rational

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned whenever an operation would produce a
// negative rational. Rational is strictly non-negative by construction.
var ErrInvalidArgument = errors.New("rational: negative result is not representable")

// ErrDivisionByZero is returned when a denominator or divisor is zero.
var ErrDivisionByZero = errors.New("rational: division by zero")

// Rational is a non-negative number represented as an integer part plus a
// reduced proper fraction: value == Integer + Numerator/Denominator, with
// Numerator < Denominator after normalization.
type Rational struct {
	integer     uint64
	numerator   uint64
	denominator uint64
}

// New builds a Rational from integer + numerator/denominator, normalizing
// and reducing it. Panics only on a zero denominator (a programmer error,
// mirrored from the C++ constructor which throws).
func New(integer, numerator, denominator uint64) Rational {
	r, err := newChecked(integer, numerator, denominator)
	if err != nil {
		panic(err)
	}
	return r
}

func newChecked(integer, numerator, denominator uint64) (Rational, error) {
	if denominator == 0 {
		return Rational{}, fmt.Errorf("%w: %d/%d", ErrDivisionByZero, numerator, denominator)
	}
	num, den := reduce(numerator, denominator)
	integer += num / den
	num -= (num / den) * den
	return Rational{integer: integer, numerator: num, denominator: den}, nil
}

// FromInt builds an integral Rational (n/1).
func FromInt(n uint64) Rational { return Rational{integer: n, numerator: 0, denominator: 1} }

// FromFraction builds numerator/denominator (no integer part pre-added).
func FromFraction(numerator, denominator uint64) Rational {
	return New(0, numerator, denominator)
}

func gcd(a, b uint64) uint64 {
	if a < b {
		a, b = b, a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcd(d1, d2 uint64) uint64 {
	r := gcd(d1, d2)
	return d1 / r * d2
}

// reduce strips common factors of two (cheaply) then the full gcd, matching
// the original implementation's two-step reduction.
func reduce(i1, i2 uint64) (uint64, uint64) {
	if i1 == 0 {
		return i1, i2
	}
	if i2 == 0 {
		return i1, i2
	}
	for (i1|i2)&1 == 0 {
		i1 >>= 1
		i2 >>= 1
	}
	r := gcd(i1, i2)
	return i1 / r, i2 / r
}

// Integer returns the whole-number part.
func (r Rational) Integer() uint64 { return r.integer }

// Numerator returns the fractional numerator (always < Denominator).
func (r Rational) Numerator() uint64 { return r.numerator }

// Denominator returns the fractional denominator (always >= 1).
func (r Rational) Denominator() uint64 { return r.denominator }

// IsZero reports whether the value is exactly zero.
func (r Rational) IsZero() bool { return r.integer == 0 && r.numerator == 0 }

func (r Rational) String() string {
	if r.numerator == 0 {
		return fmt.Sprintf("%d", r.integer)
	}
	if r.integer == 0 {
		return fmt.Sprintf("%d/%d", r.numerator, r.denominator)
	}
	return fmt.Sprintf("%d %d/%d", r.integer, r.numerator, r.denominator)
}

// Add returns r + other.
func (r Rational) Add(other Rational) Rational {
	v, _ := addSub(r, other, true)
	return v
}

// Sub returns r - other. Panics (per package convention) if the result
// would be negative; use TrySub to handle that without a panic.
func (r Rational) Sub(other Rational) Rational {
	v, err := addSub(r, other, false)
	if err != nil {
		panic(err)
	}
	return v
}

// TrySub returns r - other, or ErrInvalidArgument if the result is negative.
func (r Rational) TrySub(other Rational) (Rational, error) {
	return addSub(r, other, false)
}

func addSub(a, b Rational, isAdd bool) (Rational, error) {
	den := lcd(a.denominator, b.denominator)
	num1 := a.numerator * (den / a.denominator)
	num2 := b.numerator * (den / b.denominator)

	var integer, numerator uint64
	if isAdd {
		integer = a.integer + b.integer
		numerator = num1 + num2
	} else {
		if a.integer < b.integer {
			return Rational{}, fmt.Errorf("%w: %s - %s", ErrInvalidArgument, a, b)
		}
		integer = a.integer - b.integer
		if num1 < num2 {
			if integer < 1 {
				return Rational{}, fmt.Errorf("%w: %s - %s", ErrInvalidArgument, a, b)
			}
			integer--
			num1 += den
		}
		numerator = num1 - num2
	}
	return newChecked(integer, numerator, den)
}

// Mul returns r * other.
func (r Rational) Mul(other Rational) Rational {
	return mulDiv(r, other, true)
}

// Div returns r / other. Panics on division by zero.
func (r Rational) Div(other Rational) Rational {
	if other.IsZero() {
		panic(ErrDivisionByZero)
	}
	return mulDiv(r, other, false)
}

func mulDiv(a, b Rational, isMultiply bool) Rational {
	num1 := a.integer*a.denominator + a.numerator
	den1 := a.denominator
	num2 := b.integer*b.denominator + b.numerator
	den2 := b.denominator

	var numerator, denominator uint64
	if isMultiply {
		num1, den2 = reduce(num1, den2)
		num2, den1 = reduce(num2, den1)
		numerator = num1 * num2
		denominator = den1 * den2
	} else {
		num1, num2 = reduce(num1, num2)
		den1, den2 = reduce(den1, den2)
		numerator = num1 * den2
		denominator = den1 * num2
	}
	return New(0, numerator, denominator)
}

// AddInt/SubInt/MulInt/DivInt are integral convenience wrappers.
func (r Rational) AddInt(n uint64) Rational { return r.Add(FromInt(n)) }
func (r Rational) MulInt(n uint64) Rational { return r.Mul(FromInt(n)) }
func (r Rational) DivInt(n uint64) Rational { return r.Div(FromInt(n)) }

// Equal reports exact equality of the normalized representation.
func (r Rational) Equal(other Rational) bool {
	return r.integer == other.integer && r.numerator == other.numerator && r.denominator == other.denominator
}

// Less reports r < other.
func (r Rational) Less(other Rational) bool {
	if r.integer == other.integer {
		d := lcd(r.denominator, other.denominator)
		return (d/r.denominator)*r.numerator < (d/other.denominator)*other.numerator
	}
	return r.integer < other.integer
}

// LessEqual, Greater, GreaterEqual are derived from Less/Equal.
func (r Rational) LessEqual(other Rational) bool    { return r.Less(other) || r.Equal(other) }
func (r Rational) Greater(other Rational) bool       { return other.Less(r) }
func (r Rational) GreaterEqual(other Rational) bool  { return other.LessEqual(r) }

// Cast converts a Rational to any float or integer numeric type T, mirroring
// the original rational_cast<T> template: numerator/denominator computed in
// T's arithmetic, then the integer part added.
func Cast[T ~int | ~int64 | ~uint64 | ~float64 | ~float32](r Rational) T {
	ret := T(r.numerator)
	ret /= T(r.denominator)
	ret += T(r.integer)
	return ret
}
