// Package evaluator implements the tree-walking interpreter for lpi programs.
package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// Value is the interface for all runtime values.
// Use the sealed marker method to restrict implementations to this package.
type Value interface {
	value() // sealed marker
}

// Int is a 64-bit signed integer value.
type Int int64

func (Int) value() {}

// Float is a 64-bit floating point value.
type Float float64

func (Float) value() {}

// Array is a fixed-length array. Arrays have reference semantics: copies of
// an *Array share their storage.
type Array struct {
	Elem  string // element type named in the allocating new expression
	Items []Value
}

func (*Array) value() {}

// None is the result of a call that returned no value.
type None struct{}

func (None) value() {}

// NewArray allocates an array of n zero elements of type elem ("int" or "float").
func NewArray(elem string, n int) *Array {
	var zero Value = Int(0)
	if elem == "float" {
		zero = Float(0)
	}
	items := make([]Value, n)
	for i := range items {
		items[i] = zero
	}
	return &Array{Elem: elem, Items: items}
}

// TypeName returns the user-facing name of v's type.
func TypeName(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case Float:
		return "float"
	case *Array:
		return "array"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// ToFloat returns the numeric value of v as a float64.
func ToFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	}
	return 0, false
}

// Truthy reports whether a numeric value is non-zero.
func Truthy(v Value) (bool, bool) {
	switch n := v.(type) {
	case Int:
		return n != 0, true
	case Float:
		return n != 0, true
	}
	return false, false
}

// FormatValue renders v the way print writes it. Floats always carry a
// decimal point or an exponent so they never read back as integers.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return FormatFloat(float64(val))
	case *Array:
		parts := make([]string, len(val.Items))
		for i, item := range val.Items {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case None:
		return "none"
	}
	return "?"
}

// FormatFloat formats f in its shortest round-tripping form.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
