package glox

import "time"

// NativeFunction is a Callable implemented in Go.
type NativeFunction struct {
	Name  string
	arity int
	fn    func(args []Value) (Value, error)
}

// NewNativeFunction wraps fn; calls are checked against arity before fn
// runs.
func NewNativeFunction(name string, arity int, fn func(args []Value) (Value, error)) *NativeFunction {
	return &NativeFunction{Name: name, arity: arity, fn: fn}
}

func (nf *NativeFunction) loxValue() {}

func (nf *NativeFunction) Arity() int { return nf.arity }

func (nf *NativeFunction) Call(i *Interpreter, args []Value) (Value, error) {
	return nf.fn(args)
}

func (nf *NativeFunction) String() string { return "<native fn>" }

// clockBuiltin reports seconds since the Unix epoch. Successive readings
// come from now's monotonic clock, so they never go backwards.
func clockBuiltin(now func() time.Time) *NativeFunction {
	start := now()
	base := float64(start.UnixNano()) / float64(time.Second)
	return NewNativeFunction("clock", 0, func([]Value) (Value, error) {
		return Number(base + now().Sub(start).Seconds()), nil
	})
}
