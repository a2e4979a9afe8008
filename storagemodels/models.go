/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind identifies which member of the Value union is set.
type Kind uint8

const (
	// KindString marks a Value holding text.
	KindString Kind = iota + 1
	// KindNumber marks a Value holding a decimal number.
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "S"
	case KindNumber:
		return "N"
	default:
		return "?"
	}
}

// decimalPrec is the mantissa precision used when parsing number text.
const decimalPrec = 256

// Value is the attribute value exchanged with a storage provider.
// The zero Value is invalid and reports IsZero.
type Value struct {
	kind Kind
	text string
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Int returns a number Value for n.
func Int(n int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)}
}

// Float returns a number Value for f. NaN and infinities have no decimal
// form and are stored as zero.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Decimal returns a number Value for an arbitrary precision decimal.
func Decimal(f *big.Float) Value {
	if f == nil {
		return Int(0)
	}
	return Value{kind: KindNumber, text: f.Text('g', -1)}
}

// NumberText returns a number Value from decimal text, failing if s does not
// parse as a number. The text is kept digit for digit but normalised to JSON
// number syntax: ".5" becomes "0.5", "+05" becomes "5" and "5." becomes "5".
func NumberText(s string) (Value, error) {
	s = strings.TrimSpace(s)
	f, _, err := big.ParseFloat(s, 10, decimalPrec, big.ToNearestEven)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	if f.IsInf() {
		return Value{}, fmt.Errorf("invalid number %q: not finite", s)
	}
	return Value{kind: KindNumber, text: canonicalNumber(s)}, nil
}

// canonicalNumber rewrites text already accepted by big.ParseFloat so that
// it matches the JSON number grammar.
func canonicalNumber(s string) string {
	sign := ""
	switch {
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasPrefix(s, "-"):
		sign, s = "-", s[1:]
	}
	mantissa, exp := s, ""
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa, exp = s[:i], s[i:]
	}
	whole, frac, _ := strings.Cut(mantissa, ".")
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	out := sign + whole
	if frac != "" {
		out += "." + frac
	}
	return out + exp
}

// MustNumberText is like NumberText but panics on malformed input.
func MustNumberText(s string) Value {
	v, err := NumberText(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Value) Kind() Kind { return v.kind }

// Text returns the string content, or the decimal text of a number.
func (v Value) Text() string { return v.text }

func (v Value) IsString() bool { return v.kind == KindString }

func (v Value) IsNumber() bool { return v.kind == KindNumber }

// IsZero reports whether v was never assigned.
func (v Value) IsZero() bool { return v.kind == 0 }

// BigFloat parses the number text. It fails for string values.
func (v Value) BigFloat() (*big.Float, error) {
	if v.kind != KindNumber {
		return nil, fmt.Errorf("value of kind %s is not a number", v.kind)
	}
	f, _, err := big.ParseFloat(v.text, 10, decimalPrec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", v.text, err)
	}
	return f, nil
}

// Int64 returns the number truncated toward zero.
func (v Value) Int64() (int64, error) {
	if v.kind == KindNumber {
		if n, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := v.BigFloat()
	if err != nil {
		return 0, err
	}
	n, _ := f.Int64()
	return n, nil
}

// Float64 returns the nearest float64 to the number.
func (v Value) Float64() (float64, error) {
	f, err := v.BigFloat()
	if err != nil {
		return 0, err
	}
	out, _ := f.Float64()
	return out, nil
}

// Equal compares numbers by numeric value and strings by content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind != KindNumber {
		return v.text == o.text
	}
	c, ok := v.compare(o)
	return ok && c == 0
}

// compare orders two values of the same kind. ok is false when the kinds
// differ or a number fails to parse.
func (v Value) compare(o Value) (int, bool) {
	if v.kind != o.kind {
		return 0, false
	}
	if v.kind == KindString {
		return strings.Compare(v.text, o.text), true
	}
	a, err := v.BigFloat()
	if err != nil {
		return 0, false
	}
	b, err := o.BigFloat()
	if err != nil {
		return 0, false
	}
	return a.Cmp(b), true
}

// GoString renders the value for debugging output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("S(%q)", v.text)
	case KindNumber:
		return fmt.Sprintf("N(%s)", v.text)
	default:
		return "Value{}"
	}
}

// KeyText renders v for use inside a composite storage key. Equal numbers
// render identically regardless of how their text was written.
func (v Value) KeyText() string {
	switch v.kind {
	case KindString:
		return "S:" + v.text
	case KindNumber:
		if f, err := v.BigFloat(); err == nil {
			return "N:" + f.Text('g', -1)
		}
		return "N:" + v.text
	default:
		return ""
	}
}
