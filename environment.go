package glox

import "fmt"

type environment struct {
	envMap    map[string]Value
	enclosing *environment
}

func newEnvironment(enclosing *environment) *environment {
	return &environment{
		envMap:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// define always binds in this environment, replacing any earlier binding.
func (e *environment) define(name string, value Value) {
	e.envMap[name] = value
}

func (e *environment) assign(name Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, found := env.envMap[name.Lexeme]; found {
			env.envMap[name.Lexeme] = value
			return nil
		}
	}
	return newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

func (e *environment) get(name Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if value, found := env.envMap[name.Lexeme]; found {
			return value, nil
		}
	}
	return nil, newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

func (e *environment) ancestor(distance int) *environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
		if env == nil {
			panic(fmt.Sprintf("environment chain shorter than resolved distance %d", distance))
		}
	}
	return env
}

// assignAt and getAt trust the resolver: a miss means the scope nesting at
// run time disagrees with what was resolved, which is a bug here rather
// than in the script.
func (e *environment) assignAt(distance int, name string, value Value) {
	env := e.ancestor(distance)
	if _, found := env.envMap[name]; !found {
		panic(fmt.Sprintf("resolved local %q missing at distance %d", name, distance))
	}
	env.envMap[name] = value
}

func (e *environment) getAt(distance int, name string) Value {
	value, found := e.ancestor(distance).envMap[name]
	if !found {
		panic(fmt.Sprintf("resolved local %q missing at distance %d", name, distance))
	}
	return value
}
