package glox

import (
	"math"
	"strconv"
)

// Value is the closed set of runtime values: Nil, Bool, Number, String,
// *NativeFunction, *Function, *Class and *Instance. Every member is
// comparable, so == on two Values is Lox equality.
type Value interface {
	String() string
	loxValue()
}

type Nil struct{}

type Bool bool

type Number float64

type String string

func (Nil) loxValue()    {}
func (Bool) loxValue()   {}
func (Number) loxValue() {}
func (String) loxValue() {}

func (Nil) String() string { return "nil" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// String renders integral values without a fractional part and switches to
// exponent form for very large or very small magnitudes.
func (n Number) String() string {
	f := float64(n)
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s String) String() string { return string(s) }

// Callable is implemented by values that can appear as the callee of a call
// expression.
type Callable interface {
	Value
	Arity() int
	Call(i *Interpreter, args []Value) (Value, error)
}

func isTruthy(v Value) bool {
	switch val := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// isEqual compares by value for scalars and by identity for everything else.
// Values of different kinds are never equal.
func isEqual(a, b Value) bool {
	if a == nil {
		a = Nil{}
	}
	if b == nil {
		b = Nil{}
	}
	return a == b
}

// stringify renders v for print; a missing value prints as nil.
func stringify(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}
