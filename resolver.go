package glox

import (
	"fmt"
	"log/slog"
	"sort"
)

type scope struct {
	declared   map[string]Token
	defined    map[string]bool
	referenced map[string]bool
}

func newScope() *scope {
	return &scope{
		declared:   make(map[string]Token),
		defined:    make(map[string]bool),
		referenced: make(map[string]bool),
	}
}

func (s *scope) containsKey(key string) bool {
	_, found := s.declared[key]
	return found
}

func (s *scope) declare(name Token) {
	s.declared[name.Lexeme] = name
}

func (s *scope) define(key string) {
	s.defined[key] = true
}

func (s *scope) isDefined(key string) bool {
	return s.defined[key]
}

func (s *scope) reference(key string) {
	s.referenced[key] = true
}

// unreferenced lists the names nothing ever read or wrote, sorted.
func (s *scope) unreferenced() []Token {
	var toks []Token
	for key, tok := range s.declared {
		if !s.referenced[key] {
			toks = append(toks, tok)
		}
	}
	sort.Slice(toks, func(a, b int) bool { return toks[a].Lexeme < toks[b].Lexeme })
	return toks
}

type FunctionType int

const (
	NONEFUNC FunctionType = iota
	FUNCTION
	INITIALIZER
	METHOD
)

type ClassType int

const (
	NONECLASS ClassType = iota
	SUBCLASSCLASS
	CLASSCLASS
)

// Resolver walks the AST once before execution, recording how many scopes
// out each local reference lives. It never evaluates anything.
type Resolver struct {
	scopes              []*scope
	interpreter         *Interpreter
	currentFunctionType FunctionType
	currentClassType    ClassType
	diagnostics         Diagnostics
	logger              *slog.Logger
}

func NewResolver(interpreter *Interpreter) *Resolver {
	return &Resolver{
		interpreter: interpreter,
		logger:      interpreter.log(),
	}
}

// Resolve reports every placement and scoping error it finds in stmts and
// keeps going after each one.
func (r *Resolver) Resolve(stmts []Stmt) error {
	r.diagnostics = nil
	r.resolveStmts(stmts)
	return r.diagnostics.err()
}

func (r *Resolver) resolveError(tok Token, msg string) {
	r.diagnostics = append(r.diagnostics, tokenDiagnostic(tok, msg))
}

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Statements)
		r.endScope()
	case *ClassStmt:
		r.resolveClass(s)
	case *ExprStmt:
		r.resolveExpr(s.Expression)
	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, FUNCTION)
	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *PrintStmt:
		r.resolveExpr(s.Expression)
	case *ReturnStmt:
		if r.currentFunctionType == NONEFUNC {
			r.resolveError(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunctionType == INITIALIZER {
				r.resolveError(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *VariableStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)
	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	default:
		panic(fmt.Sprintf("resolver: unhandled statement %T", stmt))
	}
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *Get:
		r.resolveExpr(e.Object)
	case *Grouping:
		r.resolveExpr(e.Expression)
	case *Literal:
	case *Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *Super:
		switch r.currentClassType {
		case NONECLASS:
			r.resolveError(e.Keyword, "Can't use 'super' outside of a class.")
		case CLASSCLASS:
			r.resolveError(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
	case *This:
		if r.currentClassType == NONECLASS {
			r.resolveError(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *Unary:
		r.resolveExpr(e.Right)
	case *Variable:
		if inner := r.peekScope(); inner != nil {
			if inner.containsKey(e.Name.Lexeme) && !inner.isDefined(e.Name.Lexeme) {
				r.resolveError(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
	default:
		panic(fmt.Sprintf("resolver: unhandled expression %T", expr))
	}
}

func (r *Resolver) resolveClass(cs *ClassStmt) {
	enclosingClassType := r.currentClassType
	r.currentClassType = CLASSCLASS

	r.declare(cs.Name)
	r.define(cs.Name)
	if cs.Superclass != nil {
		if cs.Name.Lexeme == cs.Superclass.Name.Lexeme {
			r.resolveError(cs.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClassType = SUBCLASSCLASS
		r.resolveExpr(cs.Superclass)
		r.beginScope()
		r.peekScope().declare(Token{Type: SUPER, Lexeme: "super", Line: cs.Name.Line})
		r.peekScope().define("super")
	}

	r.beginScope()
	r.peekScope().declare(Token{Type: THIS, Lexeme: "this", Line: cs.Name.Line})
	r.peekScope().define("this")

	for _, method := range cs.Methods {
		funcType := METHOD
		if method.Name.Lexeme == "init" {
			funcType = INITIALIZER
		}
		r.resolveFunction(method, funcType)
	}

	r.endScope()
	if cs.Superclass != nil {
		r.endScope()
	}
	r.currentClassType = enclosingClassType
}

func (r *Resolver) resolveFunction(fStmt *FunctionStmt, typ FunctionType) {
	enclosingFunctionType := r.currentFunctionType
	r.currentFunctionType = typ

	r.beginScope()
	for _, param := range fStmt.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fStmt.Body)
	r.endScope()
	r.currentFunctionType = enclosingFunctionType
}

func (r *Resolver) resolveLocal(expr Expr, name Token) {
	for depth := 0; depth < len(r.scopes); depth++ {
		idx := len(r.scopes) - depth - 1
		if r.scopes[idx].containsKey(name.Lexeme) {
			r.interpreter.resolve(expr, depth)
			r.scopes[idx].reference(name.Lexeme)
			return
		}
	}
	// not found, assume it's global
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, newScope())
}

func (r *Resolver) peekScope() *scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) endScope() {
	for _, tok := range r.peekScope().unreferenced() {
		if tok.Lexeme == "this" || tok.Lexeme == "super" {
			continue
		}
		r.logger.Debug("unused local variable", slog.String("name", tok.Lexeme), slog.Int("line", tok.Line))
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return // it's global, no resolution needed
	}
	if r.peekScope().containsKey(name.Lexeme) {
		r.resolveError(name, "Already a variable with this name in this scope.")
	}
	r.peekScope().declare(name)
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope().define(name.Lexeme)
}
