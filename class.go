package glox

type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

func (c *Class) loxValue() {}

func (c *Class) String() string {
	return c.Name
}

// Call constructs an instance and runs init, if any class in the chain
// defines one.
func (c *Class) Call(i *Interpreter, args []Value) (Value, error) {
	inst := &Instance{
		Class:  c,
		Fields: make(map[string]Value),
	}
	if initializer, found := c.findMethod("init"); found {
		if _, err := initializer.bind(inst).Call(i, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (c *Class) Arity() int {
	initializer, found := c.findMethod("init")
	if !found {
		return 0
	}
	return initializer.Arity()
}

func (c *Class) findMethod(name string) (*Function, bool) {
	for class := c; class != nil; class = class.Superclass {
		if method, found := class.Methods[name]; found {
			return method, true
		}
	}
	return nil, false
}

type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (i *Instance) loxValue() {}

func (i *Instance) String() string {
	return i.Class.Name + " instance"
}

// Get prefers fields, then methods found on the class chain, bound to i.
func (i *Instance) Get(name Token) (Value, error) {
	if field, found := i.Fields[name.Lexeme]; found {
		return field, nil
	}

	if method, found := i.Class.findMethod(name.Lexeme); found {
		return method.bind(i), nil
	}

	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set always writes a field, even when a method of the same name exists.
func (i *Instance) Set(name Token, value Value) {
	if i.Fields == nil {
		i.Fields = make(map[string]Value)
	}
	i.Fields[name.Lexeme] = value
}
