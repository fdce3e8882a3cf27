package glox

import "fmt"

// Stmt is implemented by the pointer types in this file and nothing else.
type Stmt interface {
	stmtNode()
}

type ExprStmt struct {
	Expression Expr
}

type ClassStmt struct {
	Name       Token
	Superclass *Variable
	Methods    []*FunctionStmt
}

type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

type PrintStmt struct {
	Expression Expr
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

type BlockStmt struct {
	Statements []Stmt
}

type VariableStmt struct {
	Name        Token
	Initializer Expr
}

func (*ExprStmt) stmtNode()     {}
func (*ClassStmt) stmtNode()    {}
func (*FunctionStmt) stmtNode() {}
func (*IfStmt) stmtNode()       {}
func (*PrintStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*WhileStmt) stmtNode()    {}
func (*BlockStmt) stmtNode()    {}
func (*VariableStmt) stmtNode() {}

func (es *ExprStmt) String() string {
	return fmt.Sprintf("%v;", es.Expression)
}

func (cs *ClassStmt) String() string {
	if cs.Superclass == nil {
		return fmt.Sprintf("class %s %v", cs.Name.Lexeme, cs.Methods)
	}
	return fmt.Sprintf("class %s < %s %v", cs.Name.Lexeme, cs.Superclass.Name.Lexeme, cs.Methods)
}

func (fs *FunctionStmt) String() string {
	return fmt.Sprintf("fun %s/%d { %v }", fs.Name.Lexeme, len(fs.Params), fs.Body)
}

func (i *IfStmt) String() string {
	if i.Else == nil {
		return fmt.Sprintf("if(%v) %v", i.Condition, i.Then)
	}
	return fmt.Sprintf("if(%v) %v else %v", i.Condition, i.Then, i.Else)
}

func (p *PrintStmt) String() string {
	return fmt.Sprintf("print %v;", p.Expression)
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %v;", r.Value)
}

func (w *WhileStmt) String() string {
	return fmt.Sprintf("while (%v) %v", w.Condition, w.Body)
}

func (b *BlockStmt) String() string {
	return fmt.Sprintf("{ %v }", b.Statements)
}

func (vs *VariableStmt) String() string {
	if vs.Initializer == nil {
		return fmt.Sprintf("var %s;", vs.Name.Lexeme)
	}
	return fmt.Sprintf("var %s = %v;", vs.Name.Lexeme, vs.Initializer)
}
