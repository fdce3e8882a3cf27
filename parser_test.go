package glox

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	testCases := map[string]struct {
		inTokens []Token
		expected []Stmt
	}{
		"primary string": {
			inTokens: []Token{
				{Type: STRING, Literal: String("string")},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Literal{
				Value: String("string"),
			}}},
		},
		"parenthetical false": {
			inTokens: []Token{
				{Type: LEFT_PAREN},
				{Type: FALSE},
				{Type: RIGHT_PAREN},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Grouping{
				Expression: &Literal{Value: Bool(false)},
			}}},
		},
		"nil literal": {
			inTokens: []Token{
				{Type: NIL},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Literal{Value: Nil{}}}},
		},
		"unary bang": {
			inTokens: []Token{
				{Type: BANG},
				{Type: NUMBER, Literal: Number(123)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Unary{
				Operator: Token{Type: BANG},
				Right:    &Literal{Value: Number(123)},
			}}},
		},
		"factor multiply": {
			inTokens: []Token{
				{Type: NUMBER, Literal: Number(1)},
				{Type: STAR},
				{Type: NUMBER, Literal: Number(2)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Binary{
				Left:     &Literal{Value: Number(1)},
				Operator: Token{Type: STAR},
				Right:    &Literal{Value: Number(2)},
			}}},
		},
		"term is left associative": {
			// 1 - 2 - 3
			inTokens: []Token{
				{Type: NUMBER, Literal: Number(1)},
				{Type: MINUS},
				{Type: NUMBER, Literal: Number(2)},
				{Type: MINUS},
				{Type: NUMBER, Literal: Number(3)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Binary{
				Left: &Binary{
					Left:     &Literal{Value: Number(1)},
					Operator: Token{Type: MINUS},
					Right:    &Literal{Value: Number(2)},
				},
				Operator: Token{Type: MINUS},
				Right:    &Literal{Value: Number(3)},
			}}},
		},
		"comparison greater": {
			inTokens: []Token{
				{Type: NUMBER, Literal: Number(1)},
				{Type: GREATER},
				{Type: NUMBER, Literal: Number(2)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Binary{
				Left:     &Literal{Value: Number(1)},
				Operator: Token{Type: GREATER},
				Right:    &Literal{Value: Number(2)},
			}}},
		},
		"equality comparison term factor grouping unary": {
			// !(1 + 1.1) == 2 * 2.1 > 3
			inTokens: []Token{
				{Type: BANG},
				{Type: LEFT_PAREN},
				{Type: NUMBER, Literal: Number(1)},
				{Type: PLUS},
				{Type: NUMBER, Literal: Number(1.1)},
				{Type: RIGHT_PAREN},
				{Type: EQUAL_EQUAL},
				{Type: NUMBER, Literal: Number(2)},
				{Type: STAR},
				{Type: NUMBER, Literal: Number(2.1)},
				{Type: GREATER},
				{Type: NUMBER, Literal: Number(3)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Binary{
				Left: &Unary{
					Operator: Token{Type: BANG},
					Right: &Grouping{
						Expression: &Binary{
							Left:     &Literal{Value: Number(1)},
							Operator: Token{Type: PLUS},
							Right:    &Literal{Value: Number(1.1)},
						},
					},
				},
				Operator: Token{Type: EQUAL_EQUAL},
				Right: &Binary{
					Left: &Binary{
						Left:     &Literal{Value: Number(2)},
						Operator: Token{Type: STAR},
						Right:    &Literal{Value: Number(2.1)},
					},
					Operator: Token{Type: GREATER},
					Right:    &Literal{Value: Number(3)},
				},
			}}},
		},
		"and binds tighter than or": {
			// a or b and c
			inTokens: []Token{
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: OR},
				{Type: IDENTIFIER, Lexeme: "b"},
				{Type: AND},
				{Type: IDENTIFIER, Lexeme: "c"},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Logical{
				Left:     &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "a"}},
				Operator: Token{Type: OR},
				Right: &Logical{
					Left:     &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "b"}},
					Operator: Token{Type: AND},
					Right:    &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "c"}},
				},
			}}},
		},
		"assignment is right associative": {
			// a = b = 1
			inTokens: []Token{
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: EQUAL},
				{Type: IDENTIFIER, Lexeme: "b"},
				{Type: EQUAL},
				{Type: NUMBER, Literal: Number(1)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Assign{
				Name: Token{Type: IDENTIFIER, Lexeme: "a"},
				Value: &Assign{
					Name:  Token{Type: IDENTIFIER, Lexeme: "b"},
					Value: &Literal{Value: Number(1)},
				},
			}}},
		},
		"call and get chain": {
			// a.b(1).c
			inTokens: []Token{
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: DOT},
				{Type: IDENTIFIER, Lexeme: "b"},
				{Type: LEFT_PAREN},
				{Type: NUMBER, Literal: Number(1)},
				{Type: RIGHT_PAREN, Lexeme: ")"},
				{Type: DOT},
				{Type: IDENTIFIER, Lexeme: "c"},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Get{
				Object: &Call{
					Callee: &Get{
						Object: &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "a"}},
						Name:   Token{Type: IDENTIFIER, Lexeme: "b"},
					},
					Paren: Token{Type: RIGHT_PAREN, Lexeme: ")"},
					Args:  []Expr{&Literal{Value: Number(1)}},
				},
				Name: Token{Type: IDENTIFIER, Lexeme: "c"},
			}}},
		},
		"setter": {
			// a.b = 1
			inTokens: []Token{
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: DOT},
				{Type: IDENTIFIER, Lexeme: "b"},
				{Type: EQUAL},
				{Type: NUMBER, Literal: Number(1)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&ExprStmt{&Set{
				Object: &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "a"}},
				Name:   Token{Type: IDENTIFIER, Lexeme: "b"},
				Value:  &Literal{Value: Number(1)},
			}}},
		},
		"variable declaration": {
			inTokens: []Token{
				{Type: VAR},
				{Type: IDENTIFIER, Lexeme: "myVar"},
				{Type: EQUAL},
				{Type: NUMBER, Literal: Number(1)},
				{Type: SEMICOLON},
			},
			expected: []Stmt{&VariableStmt{
				Name:        Token{Type: IDENTIFIER, Lexeme: "myVar"},
				Initializer: &Literal{Value: Number(1)},
			}},
		},
		"block": {
			inTokens: []Token{
				{Type: LEFT_BRACE},
				{Type: VAR},
				{Type: IDENTIFIER, Lexeme: "myVar"},
				{Type: SEMICOLON},
				{Type: RIGHT_BRACE},
			},
			expected: []Stmt{
				&BlockStmt{
					Statements: []Stmt{
						&VariableStmt{
							Name: Token{Type: IDENTIFIER, Lexeme: "myVar"},
						},
					},
				},
			},
		},
		"if/else": {
			// if (a) print a; else print b;
			inTokens: []Token{
				{Type: IF},
				{Type: LEFT_PAREN},
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: RIGHT_PAREN},
				{Type: PRINT},
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: SEMICOLON},
				{Type: ELSE},
				{Type: PRINT},
				{Type: IDENTIFIER, Lexeme: "b"},
				{Type: SEMICOLON},
			},
			expected: []Stmt{
				&IfStmt{
					Condition: &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "a"}},
					Then:      &PrintStmt{&Variable{Name: Token{Type: IDENTIFIER, Lexeme: "a"}}},
					Else:      &PrintStmt{&Variable{Name: Token{Type: IDENTIFIER, Lexeme: "b"}}},
				},
			},
		},
		"empty for": {
			inTokens: []Token{
				{Type: FOR},
				{Type: LEFT_PAREN},
				{Type: SEMICOLON},
				{Type: SEMICOLON},
				{Type: RIGHT_PAREN},
				{Type: PRINT},
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: SEMICOLON},
			},
			expected: []Stmt{
				&WhileStmt{
					Condition: &Literal{Value: Bool(true)},
					Body:      &PrintStmt{Expression: &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "a"}}},
				},
			},
		},
		"full for": {
			// for (var i = 0; i; i = 1) print i;
			inTokens: []Token{
				{Type: FOR},
				{Type: LEFT_PAREN},
				{Type: VAR},
				{Type: IDENTIFIER, Lexeme: "i"},
				{Type: EQUAL},
				{Type: NUMBER, Literal: Number(0)},
				{Type: SEMICOLON},
				{Type: IDENTIFIER, Lexeme: "i"},
				{Type: SEMICOLON},
				{Type: IDENTIFIER, Lexeme: "i"},
				{Type: EQUAL},
				{Type: NUMBER, Literal: Number(1)},
				{Type: RIGHT_PAREN},
				{Type: PRINT},
				{Type: IDENTIFIER, Lexeme: "i"},
				{Type: SEMICOLON},
			},
			expected: []Stmt{
				&BlockStmt{Statements: []Stmt{
					&VariableStmt{
						Name:        Token{Type: IDENTIFIER, Lexeme: "i"},
						Initializer: &Literal{Value: Number(0)},
					},
					&WhileStmt{
						Condition: &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "i"}},
						Body: &BlockStmt{Statements: []Stmt{
							&PrintStmt{Expression: &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "i"}}},
							&ExprStmt{Expression: &Assign{
								Name:  Token{Type: IDENTIFIER, Lexeme: "i"},
								Value: &Literal{Value: Number(1)},
							}},
						}},
					},
				}},
			},
		},
		"class with superclass": {
			// class B < A { m() {} }
			inTokens: []Token{
				{Type: CLASS},
				{Type: IDENTIFIER, Lexeme: "B"},
				{Type: LESS},
				{Type: IDENTIFIER, Lexeme: "A"},
				{Type: LEFT_BRACE},
				{Type: IDENTIFIER, Lexeme: "m"},
				{Type: LEFT_PAREN},
				{Type: RIGHT_PAREN},
				{Type: LEFT_BRACE},
				{Type: RIGHT_BRACE},
				{Type: RIGHT_BRACE},
			},
			expected: []Stmt{
				&ClassStmt{
					Name:       Token{Type: IDENTIFIER, Lexeme: "B"},
					Superclass: &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "A"}},
					Methods: []*FunctionStmt{
						{Name: Token{Type: IDENTIFIER, Lexeme: "m"}},
					},
				},
			},
		},
		"function with params and return": {
			// fun f(a, b) { return a; }
			inTokens: []Token{
				{Type: FUN},
				{Type: IDENTIFIER, Lexeme: "f"},
				{Type: LEFT_PAREN},
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: COMMA},
				{Type: IDENTIFIER, Lexeme: "b"},
				{Type: RIGHT_PAREN},
				{Type: LEFT_BRACE},
				{Type: RETURN, Lexeme: "return"},
				{Type: IDENTIFIER, Lexeme: "a"},
				{Type: SEMICOLON},
				{Type: RIGHT_BRACE},
			},
			expected: []Stmt{
				&FunctionStmt{
					Name: Token{Type: IDENTIFIER, Lexeme: "f"},
					Params: []Token{
						{Type: IDENTIFIER, Lexeme: "a"},
						{Type: IDENTIFIER, Lexeme: "b"},
					},
					Body: []Stmt{
						&ReturnStmt{
							Keyword: Token{Type: RETURN, Lexeme: "return"},
							Value:   &Variable{Name: Token{Type: IDENTIFIER, Lexeme: "a"}},
						},
					},
				},
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			p := &Parser{Tokens: tc.inTokens}
			actual, err := p.Parse()
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, actual); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func parseSource(t *testing.T, src string) ([]Stmt, error) {
	t.Helper()
	tokens, err := (&Scanner{}).ScanTokens(src)
	require.NoError(t, err)
	return (&Parser{Tokens: tokens}).Parse()
}

func TestParser_Parse_errors(t *testing.T) {
	testCases := map[string]struct {
		in            string
		expectedDiags Diagnostics
		expectedStmts int
	}{
		"missing semicolon at end": {
			in: "print 1",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at end", Message: "Expect ';' after value."},
			},
		},
		"missing expression": {
			in: "print ;",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at ';'", Message: "Expect expression."},
			},
		},
		"recovers and reports each declaration": {
			in: "print 1 print 2;\nvar = 3;\nprint (4;",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at 'print'", Message: "Expect ';' after value."},
				{Line: 2, Where: " at '='", Message: "Expect variable name."},
				{Line: 3, Where: " at ';'", Message: "Expect ')' after expression."},
			},
		},
		"good statements around a bad one survive": {
			in: "print 1;\nvar 2;\nprint 3;",
			expectedDiags: Diagnostics{
				{Line: 2, Where: " at '2'", Message: "Expect variable name."},
			},
			expectedStmts: 2,
		},
		"recovers inside a block": {
			in: "{ var = 1; print 2; }",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at '='", Message: "Expect variable name."},
			},
			expectedStmts: 1,
		},
		"invalid assignment target does not synchronize": {
			in: "a + b = c;\nprint 1;",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at '='", Message: "Invalid assignment target."},
			},
			expectedStmts: 2,
		},
		"missing class body": {
			in: "class A",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at end", Message: "Expect '{' before class body."},
			},
		},
		"missing superclass name": {
			in: "class A < {}",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at '{'", Message: "Expect superclass name."},
			},
		},
		"unclosed block": {
			in: "{ print 1;",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at end", Message: "Expect '}' after block."},
			},
		},
		"property name expected": {
			in: "a.1;",
			expectedDiags: Diagnostics{
				{Line: 1, Where: " at '1'", Message: "Expect property name after '.'."},
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			stmts, err := parseSource(t, tc.in)
			require.Error(t, err)
			var diags Diagnostics
			require.ErrorAs(t, err, &diags)
			if diff := cmp.Diff(tc.expectedDiags, diags); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, stmts, tc.expectedStmts)
		})
	}
}

func TestParser_Parse_argumentLimits(t *testing.T) {
	manyArgs := strings.TrimSuffix(strings.Repeat("0, ", 256), ", ")
	manyParams := make([]string, 256)
	for i := range manyParams {
		manyParams[i] = "p" + strings.Repeat("x", i)
	}

	testCases := map[string]struct {
		in          string
		expectedMsg string
	}{
		"too many arguments": {
			in:          "f(" + manyArgs + ");",
			expectedMsg: "Can't have more than 255 arguments.",
		},
		"too many parameters": {
			in:          "fun f(" + strings.Join(manyParams, ", ") + ") {}",
			expectedMsg: "Can't have more than 255 parameters.",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			stmts, err := parseSource(t, tc.in)
			var diags Diagnostics
			require.ErrorAs(t, err, &diags)
			require.Len(t, diags, 1)
			assert.Equal(t, tc.expectedMsg, diags[0].Message)
			// the limit is reported, not fatal
			assert.Len(t, stmts, 1)
		})
	}
}

func TestParser_Parse_exactlyMaxArguments(t *testing.T) {
	args := strings.TrimSuffix(strings.Repeat("0, ", 255), ", ")
	stmts, err := parseSource(t, "f("+args+");")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	call := stmts[0].(*ExprStmt).Expression.(*Call)
	assert.Len(t, call.Args, 255)
}
