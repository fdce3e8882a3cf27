package glox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// completion is how a statement finished. A return statement produces
// returning=true, which unwinds blocks and loops until Function.Call
// consumes it. It is never an error.
type completion struct {
	returning bool
	value     Value
}

var normal = completion{}

type Interpreter struct {
	Stdout      io.Writer
	locals      map[Expr]int
	globals     *environment
	env         *environment
	logger      *slog.Logger
	now         func() time.Time
	initialized bool
}

// Interpret runs stmts in order and stops at the first runtime error, which
// is returned. Globals persist across calls on the same Interpreter.
func (i *Interpreter) Interpret(stmts []Stmt) error {
	i.ensureInit()

	for _, stmt := range stmts {
		result, err := i.execute(stmt)
		if err != nil {
			return err
		}
		if result.returning {
			return nil
		}
	}
	return nil
}

// DefineGlobal binds name in the global environment, replacing any
// existing binding. Hosts use it to add natives.
func (i *Interpreter) DefineGlobal(name string, value Value) {
	i.ensureInit()
	i.globals.define(name, value)
}

func (i *Interpreter) resolve(expr Expr, distance int) {
	i.ensureInit()
	i.locals[expr] = distance
}

func (i *Interpreter) ensureInit() {
	if !i.initialized {
		i.init()
	}
}

func (i *Interpreter) init() {
	if i.Stdout == nil {
		i.Stdout = os.Stdout
	}
	if i.now == nil {
		i.now = time.Now
	}
	i.globals = newEnvironment(nil)
	i.env = i.globals
	i.globals.define("clock", clockBuiltin(i.now))
	i.locals = make(map[Expr]int)
	i.initialized = true
}

func (i *Interpreter) log() *slog.Logger {
	if i.logger == nil {
		i.logger = slog.New(slog.DiscardHandler)
	}
	return i.logger
}

func (i *Interpreter) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Assign:
		return i.evalAssign(e)
	case *Binary:
		return i.evalBinary(e)
	case *Call:
		return i.evalCall(e)
	case *Get:
		return i.evalGet(e)
	case *Grouping:
		return i.evaluate(e.Expression)
	case *Literal:
		if e.Value == nil {
			return Nil{}, nil
		}
		return e.Value, nil
	case *Logical:
		return i.evalLogical(e)
	case *Set:
		return i.evalSet(e)
	case *Super:
		return i.evalSuper(e)
	case *This:
		return i.lookupVariable(e.Keyword, e)
	case *Unary:
		return i.evalUnary(e)
	case *Variable:
		return i.lookupVariable(e.Name, e)
	}
	panic(fmt.Sprintf("interpreter: unhandled expression %T", expr))
}

func (i *Interpreter) execute(stmt Stmt) (completion, error) {
	switch s := stmt.(type) {
	case *BlockStmt:
		return i.executeBlock(s.Statements, newEnvironment(i.env))
	case *ClassStmt:
		return normal, i.execClass(s)
	case *ExprStmt:
		_, err := i.evaluate(s.Expression)
		return normal, err
	case *FunctionStmt:
		i.env.define(s.Name.Lexeme, &Function{Declaration: s, Closure: i.env})
		return normal, nil
	case *IfStmt:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if isTruthy(cond) {
			return i.execute(s.Then)
		} else if s.Else != nil {
			return i.execute(s.Else)
		}
		return normal, nil
	case *PrintStmt:
		value, err := i.evaluate(s.Expression)
		if err != nil {
			return normal, err
		}
		_, _ = fmt.Fprintln(i.Stdout, stringify(value))
		return normal, nil
	case *ReturnStmt:
		var value Value = Nil{}
		if s.Value != nil {
			var err error
			if value, err = i.evaluate(s.Value); err != nil {
				return normal, err
			}
		}
		return completion{returning: true, value: value}, nil
	case *VariableStmt:
		var value Value = Nil{}
		if s.Initializer != nil {
			var err error
			if value, err = i.evaluate(s.Initializer); err != nil {
				return normal, err
			}
		}
		i.env.define(s.Name.Lexeme, value)
		return normal, nil
	case *WhileStmt:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return normal, err
			}
			if !isTruthy(cond) {
				return normal, nil
			}
			result, err := i.execute(s.Body)
			if err != nil || result.returning {
				return result, err
			}
		}
	}
	panic(fmt.Sprintf("interpreter: unhandled statement %T", stmt))
}

// executeBlock runs stmts with env as the current environment and restores
// the previous one however the block finishes.
func (i *Interpreter) executeBlock(stmts []Stmt, env *environment) (completion, error) {
	prevEnv := i.env
	defer func() {
		i.env = prevEnv
	}()
	i.env = env

	for _, stmt := range stmts {
		result, err := i.execute(stmt)
		if err != nil || result.returning {
			return result, err
		}
	}
	return normal, nil
}

func (i *Interpreter) execClass(cs *ClassStmt) error {
	var superclass *Class
	if cs.Superclass != nil {
		superclassMaybe, err := i.evaluate(cs.Superclass)
		if err != nil {
			return err
		}
		var ok bool
		superclass, ok = superclassMaybe.(*Class)
		if !ok {
			return newRuntimeError(cs.Superclass.Name, "Superclass must be a class.")
		}
	}

	i.env.define(cs.Name.Lexeme, Nil{})

	closure := i.env
	if superclass != nil {
		closure = newEnvironment(i.env)
		closure.define("super", superclass)
	}

	methods := make(map[string]*Function, len(cs.Methods))
	for _, methodStmt := range cs.Methods {
		methods[methodStmt.Name.Lexeme] = &Function{
			Declaration:   methodStmt,
			Closure:       closure,
			isInitializer: methodStmt.Name.Lexeme == "init",
		}
	}

	return i.env.assign(cs.Name, &Class{
		Name:       cs.Name.Lexeme,
		Methods:    methods,
		Superclass: superclass,
	})
}

func (i *Interpreter) evalAssign(a *Assign) (Value, error) {
	value, err := i.evaluate(a.Value)
	if err != nil {
		return nil, err
	}
	if distance, found := i.locals[a]; found {
		i.env.assignAt(distance, a.Name.Lexeme, value)
		return value, nil
	}
	if err := i.globals.assign(a.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) evalBinary(b *Binary) (Value, error) {
	left, err := i.evaluate(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Operator.Type {
	case BANG_EQUAL:
		return Bool(!isEqual(left, right)), nil
	case EQUAL_EQUAL:
		return Bool(isEqual(left, right)), nil
	case PLUS:
		switch l := left.(type) {
		case Number:
			if r, ok := right.(Number); ok {
				return l + r, nil
			}
		case String:
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
		return nil, newRuntimeError(b.Operator, "Operands of '+' must be two numbers or two strings.")
	}

	l, r, err := checkNumberOperands(b.Operator, left, right)
	if err != nil {
		return nil, err
	}
	switch b.Operator.Type {
	case MINUS:
		return l - r, nil
	case SLASH:
		return l / r, nil
	case STAR:
		return l * r, nil
	case GREATER:
		return Bool(l > r), nil
	case GREATER_EQUAL:
		return Bool(l >= r), nil
	case LESS:
		return Bool(l < r), nil
	case LESS_EQUAL:
		return Bool(l <= r), nil
	}

	panic("evalBinary hit intended-unreachable code")
}

func checkNumberOperands(op Token, left, right Value) (Number, Number, error) {
	l, leftOk := left.(Number)
	r, rightOk := right.(Number)
	if !leftOk || !rightOk {
		return 0, 0, newRuntimeError(op, "Operands of '%s' must be numbers.", op.Lexeme)
	}
	return l, r, nil
}

func (i *Interpreter) evalCall(c *Call) (Value, error) {
	callee, err := i.evaluate(c.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(c.Args))
	for _, argExpr := range c.Args {
		arg, err := i.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	function, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(c.Paren, "Can only call functions and classes.")
	}
	if len(args) != function.Arity() {
		return nil, newRuntimeError(c.Paren, "Expected %d arguments but got %d.", function.Arity(), len(args))
	}

	result, err := function.Call(i, args)
	if err != nil {
		var rte *RuntimeError
		if !errors.As(err, &rte) {
			// natives may fail with plain errors; attribute them to the call
			return nil, &RuntimeError{Token: c.Paren, Message: err.Error()}
		}
		return nil, err
	}
	if result == nil {
		return Nil{}, nil
	}
	return result, nil
}

func (i *Interpreter) evalGet(g *Get) (Value, error) {
	obj, err := i.evaluate(g.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(g.Name, "Only instances have properties.")
	}
	return instance.Get(g.Name)
}

func (i *Interpreter) evalLogical(l *Logical) (Value, error) {
	left, err := i.evaluate(l.Left)
	if err != nil {
		return nil, err
	}

	if l.Operator.Type == OR {
		// short-circuit OR
		if isTruthy(left) {
			return left, nil
		}
	} else {
		// short-circuit AND
		if !isTruthy(left) {
			return left, nil
		}
	}

	return i.evaluate(l.Right)
}

func (i *Interpreter) evalSet(s *Set) (Value, error) {
	obj, err := i.evaluate(s.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(s.Name, "Only instances have fields.")
	}
	value, err := i.evaluate(s.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(s.Name, value)
	return value, nil
}

func (i *Interpreter) evalSuper(s *Super) (Value, error) {
	distance, found := i.locals[s]
	if !found {
		panic("interpreter: unresolved 'super' expression")
	}
	superclass := i.env.getAt(distance, "super").(*Class)
	// "this" always lives one environment nearer than "super"
	instance := i.env.getAt(distance-1, "this").(*Instance)

	method, found := superclass.findMethod(s.Method.Lexeme)
	if !found {
		return nil, newRuntimeError(s.Method, "Undefined property '%s'.", s.Method.Lexeme)
	}
	return method.bind(instance), nil
}

func (i *Interpreter) evalUnary(u *Unary) (Value, error) {
	right, err := i.evaluate(u.Right)
	if err != nil {
		return nil, err
	}

	switch u.Operator.Type {
	case MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, newRuntimeError(u.Operator, "Operand of '-' must be a number.")
		}
		return -n, nil
	case BANG:
		return Bool(!isTruthy(right)), nil
	}

	panic("Interpreter hit intended-unreachable code in evalUnary")
}

func (i *Interpreter) lookupVariable(name Token, expr Expr) (Value, error) {
	if distance, found := i.locals[expr]; found {
		return i.env.getAt(distance, name.Lexeme), nil
	}
	return i.globals.get(name)
}
