package glox

import (
	"fmt"
)

// Expr is implemented by the pointer types in this file and nothing else.
// The resolver keys binding distances on the pointer, so every reference
// in the source is a distinct node even when two of them read the same.
type Expr interface {
	exprNode()
}

type Assign struct {
	Name  Token
	Value Expr
}

type Binary struct {
	Left     Expr
	Operator Token
	Right    Expr
}

type Call struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

type Get struct {
	Object Expr
	Name   Token
}

type Set struct {
	Object Expr
	Name   Token
	Value  Expr
}

type Grouping struct {
	Expression Expr
}

type Literal struct {
	Value Value
}

type Logical struct {
	Left     Expr
	Operator Token
	Right    Expr
}

type Super struct {
	Keyword Token
	Method  Token
}

type This struct {
	Keyword Token
}

type Unary struct {
	Operator Token
	Right    Expr
}

type Variable struct {
	Name Token
}

func (*Assign) exprNode()   {}
func (*Binary) exprNode()   {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Set) exprNode()      {}
func (*Grouping) exprNode() {}
func (*Literal) exprNode()  {}
func (*Logical) exprNode()  {}
func (*Super) exprNode()    {}
func (*This) exprNode()     {}
func (*Unary) exprNode()    {}
func (*Variable) exprNode() {}

func (a *Assign) String() string {
	return fmt.Sprintf("%s = %v", a.Name.Lexeme, a.Value)
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%v %s %v)", b.Left, b.Operator.Lexeme, b.Right)
}

func (c *Call) String() string {
	return fmt.Sprintf("call<%v>(%v)", c.Callee, c.Args)
}

func (g *Get) String() string {
	return fmt.Sprintf("%v.get(%q)", g.Object, g.Name.Lexeme)
}

func (s *Set) String() string {
	return fmt.Sprintf("%v.set(%q) = %v", s.Object, s.Name.Lexeme, s.Value)
}

func (g *Grouping) String() string {
	return fmt.Sprintf("(%v)", g.Expression)
}

func (l *Literal) String() string {
	return stringify(l.Value)
}

func (l *Logical) String() string {
	return fmt.Sprintf("(%v %s %v)", l.Left, l.Operator.Lexeme, l.Right)
}

func (s *Super) String() string {
	return "super." + s.Method.Lexeme
}

func (t *This) String() string {
	return "this"
}

func (u *Unary) String() string {
	return fmt.Sprintf("(%s%v)", u.Operator.Lexeme, u.Right)
}

func (v *Variable) String() string {
	return fmt.Sprintf("var(%s)", v.Name.Lexeme)
}
