package glox

import "fmt"

const maxArgs = 255

// parseError unwinds the parser back to the enclosing declaration, which
// then synchronizes. The diagnostic itself is recorded before the panic.
type parseError struct {
	Diagnostic
}

type Parser struct {
	Tokens      []Token
	current     int
	diagnostics Diagnostics
}

// Parse turns the token stream into top-level statements. A syntax error
// discards tokens up to the next statement boundary and parsing resumes, so
// the returned Diagnostics can hold several independent errors. When it is
// non-nil the statements are incomplete and must not be run.
func (p *Parser) Parse() ([]Stmt, error) {
	if n := len(p.Tokens); n == 0 || p.Tokens[n-1].Type != EOF {
		line := 1
		if n > 0 {
			line = p.Tokens[n-1].Line
		}
		p.Tokens = append(p.Tokens, Token{Type: EOF, Line: line})
	}

	var statements []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements, p.diagnostics.err()
}

// report records a diagnostic without unwinding.
func (p *Parser) report(tok Token, msg string) parseError {
	d := tokenDiagnostic(tok, msg)
	p.diagnostics = append(p.diagnostics, d)
	return parseError{d}
}

func (p *Parser) parseError(tok Token, msg string) {
	panic(p.report(tok, msg))
}

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	if p.match(CLASS) {
		return p.classDeclaration()
	}
	if p.match(FUN) {
		return p.funDeclaration("function")
	}
	if p.match(VAR) {
		return p.varDeclaration()
	}
	return p.statement()
}

// synchronize skips to just past a ';' or to the keyword that starts the
// next statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

func (p *Parser) classDeclaration() Stmt {
	name := p.consume(IDENTIFIER, "Expect class name.")

	var superclass *Variable
	if p.match(LESS) {
		p.consume(IDENTIFIER, "Expect superclass name.")
		superclass = &Variable{Name: p.previous()}
	}

	p.consume(LEFT_BRACE, "Expect '{' before class body.")

	var methods []*FunctionStmt
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		methods = append(methods, p.funDeclaration("method"))
	}

	p.consume(RIGHT_BRACE, "Expect '}' after class body.")

	return &ClassStmt{
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
	}
}

func (p *Parser) funDeclaration(kind string) *FunctionStmt {
	// grab function name
	name := p.consume(IDENTIFIER, fmt.Sprintf("Expect %s name.", kind))

	// grab function prototype
	p.consume(LEFT_PAREN, fmt.Sprintf("Expect '(' after %s name.", kind))
	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d parameters.", maxArgs))
			}
			params = append(params, p.consume(IDENTIFIER, "Expect parameter name."))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RIGHT_PAREN, "Expect ')' after parameters.")

	// grab function body
	p.consume(LEFT_BRACE, fmt.Sprintf("Expect '{' before %s body.", kind))
	body := p.block()

	return &FunctionStmt{
		Name:   name,
		Params: params,
		Body:   body,
	}
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(IDENTIFIER, "Expect variable name.")
	var initializer Expr
	if p.match(EQUAL) {
		initializer = p.expression()
	}

	p.consume(SEMICOLON, "Expect ';' after variable declaration.")
	return &VariableStmt{
		Name:        name,
		Initializer: initializer,
	}
}

func (p *Parser) statement() Stmt {
	if p.match(FOR) {
		return p.forStatement()
	}
	if p.match(IF) {
		return p.ifStatement()
	}
	if p.match(PRINT) {
		return p.printStatement()
	}
	if p.match(RETURN) {
		return p.returnStatement()
	}
	if p.match(WHILE) {
		return p.whileStatement()
	}
	if p.match(LEFT_BRACE) {
		return &BlockStmt{p.block()}
	}
	return p.expressionStatement()
}

func (p *Parser) forStatement() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer Stmt
	if p.match(SEMICOLON) {
		initializer = nil
	} else if p.match(VAR) {
		initializer = p.varDeclaration()
	} else {
		initializer = p.expressionStatement()
	}

	var condition Expr
	if !p.check(SEMICOLON) {
		condition = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	// in Lox, a for loop is just syntactic sugar for a while loop.
	//	{ var i = 0
	//	  while COND {
	//	    {body}
	//	    increment
	//	  }
	//	}
	if increment != nil {
		body = &BlockStmt{
			Statements: []Stmt{
				body,
				&ExprStmt{increment},
			},
		}
	}

	if condition == nil {
		condition = &Literal{Value: Bool(true)}
	}
	body = &WhileStmt{
		Condition: condition,
		Body:      body,
	}

	// a declared initializer is scoped to this outer block
	if initializer != nil {
		body = &BlockStmt{
			Statements: []Stmt{
				initializer,
				body,
			},
		}
	}

	return body
}

func (p *Parser) ifStatement() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()

	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch = p.statement()
	}

	return &IfStmt{
		Condition: condition,
		Then:      thenBranch,
		Else:      elseBranch,
	}
}

func (p *Parser) printStatement() Stmt {
	value := p.expression()
	p.consume(SEMICOLON, "Expect ';' after value.")
	return &PrintStmt{value}
}

func (p *Parser) returnStatement() Stmt {
	keyword := p.previous()
	var value Expr
	if !p.check(SEMICOLON) {
		value = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after return value.")

	return &ReturnStmt{
		Keyword: keyword,
		Value:   value,
	}
}

func (p *Parser) whileStatement() Stmt {
	p.consume(LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()

	return &WhileStmt{
		Condition: condition,
		Body:      body,
	}
}

func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(SEMICOLON, "Expect ';' after expression.")
	return &ExprStmt{expr}
}

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.or()
	if p.match(EQUAL) {
		equals := p.previous()
		rValue := p.assignment()

		switch lValue := expr.(type) {
		case *Variable:
			return &Assign{
				Name:  lValue.Name,
				Value: rValue,
			}
		case *Get:
			return &Set{
				Object: lValue.Object,
				Name:   lValue.Name,
				Value:  rValue,
			}
		}
		// the parser is not confused, so no need to synchronize
		p.report(equals, "Invalid assignment target.")
	}
	return expr
}

func (p *Parser) or() Expr {
	return p.logical(p.and, OR)
}

func (p *Parser) and() Expr {
	return p.logical(p.equality, AND)
}

func (p *Parser) logical(next func() Expr, typ TokenType) Expr {
	expr := next()
	for p.match(typ) {
		operator := p.previous()
		right := next()
		expr = &Logical{
			Left:     expr,
			Operator: operator,
			Right:    right,
		}
	}
	return expr
}

func (p *Parser) equality() Expr {
	return p.binaryExpr(p.comparison, BANG_EQUAL, EQUAL_EQUAL)
}

func (p *Parser) comparison() Expr {
	return p.binaryExpr(p.term, GREATER, GREATER_EQUAL, LESS, LESS_EQUAL)
}

func (p *Parser) term() Expr {
	return p.binaryExpr(p.factor, MINUS, PLUS)
}

func (p *Parser) factor() Expr {
	return p.binaryExpr(p.unary, SLASH, STAR)
}

func (p *Parser) binaryExpr(next func() Expr, types ...TokenType) Expr {
	expr := next()
	for p.match(types...) {
		operator := p.previous()
		right := next()
		expr = &Binary{
			Left:     expr,
			Operator: operator,
			Right:    right,
		}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(BANG, MINUS) {
		operator := p.previous()
		right := p.unary()
		return &Unary{
			Operator: operator,
			Right:    right,
		}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()

	for {
		if p.match(LEFT_PAREN) {
			expr = p.finishCall(expr)
		} else if p.match(DOT) {
			name := p.consume(IDENTIFIER, "Expect property name after '.'.")
			expr = &Get{expr, name}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), fmt.Sprintf("Can't have more than %d arguments.", maxArgs))
			}
			args = append(args, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.consume(RIGHT_PAREN, "Expect ')' after arguments.")

	return &Call{
		Callee: callee,
		Paren:  paren,
		Args:   args,
	}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(FALSE):
		return &Literal{Value: Bool(false)}
	case p.match(TRUE):
		return &Literal{Value: Bool(true)}
	case p.match(NIL):
		return &Literal{Value: Nil{}}
	case p.match(NUMBER, STRING):
		return &Literal{Value: p.previous().Literal}
	case p.match(SUPER):
		keyword := p.previous()
		p.consume(DOT, "Expect '.' after 'super'.")
		method := p.consume(IDENTIFIER, "Expect superclass method name.")
		return &Super{
			Keyword: keyword,
			Method:  method,
		}
	case p.match(THIS):
		return &This{p.previous()}
	case p.match(IDENTIFIER):
		return &Variable{Name: p.previous()}
	case p.match(LEFT_PAREN):
		expr := p.expression()
		p.consume(RIGHT_PAREN, "Expect ')' after expression.")
		return &Grouping{
			Expression: expr,
		}
	}
	p.parseError(p.peek(), "Expect expression.")
	panic("unreachable")
}

/* Token list operations from here down */
func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) previous() Token {
	return p.Tokens[p.current-1]
}

func (p *Parser) peek() Token {
	return p.Tokens[p.current]
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ TokenType, errMsg string) Token {
	if p.check(typ) {
		return p.advance()
	}
	p.parseError(p.peek(), errMsg)
	return Token{} // unreachable
}

func (p *Parser) check(typ TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == typ
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}
