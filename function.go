package glox

import "fmt"

type Function struct {
	Declaration   *FunctionStmt
	Closure       *environment
	isInitializer bool // allows us to return "this" from a re-call to init()
}

func (f *Function) loxValue() {}

// bind returns a copy of f whose closure additionally defines "this".
// The original closure is left untouched.
func (f *Function) bind(inst *Instance) *Function {
	env := newEnvironment(f.Closure)
	env.define("this", inst)
	return &Function{
		Declaration:   f.Declaration,
		Closure:       env,
		isInitializer: f.isInitializer,
	}
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

func (f *Function) Call(i *Interpreter, args []Value) (Value, error) {
	// call semantics mean we can't see variables in the caller's
	// scope, only the ones captured when the function was declared
	env := newEnvironment(f.Closure)
	for idx, param := range f.Declaration.Params {
		env.define(param.Lexeme, args[idx])
	}

	result, err := i.executeBlock(f.Declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.isInitializer {
		return f.Closure.getAt(0, "this"), nil
	}
	if result.returning {
		return result.value, nil
	}
	return Nil{}, nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Declaration.Name.Lexeme)
}
