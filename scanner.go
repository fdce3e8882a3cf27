package glox

import (
	"fmt"
	"strconv"
	"unicode"
)

type Scanner struct {
	srcRunes    []rune
	start       int
	current     int
	line        int
	Tokens      []Token
	diagnostics Diagnostics
}

// ScanTokens converts src into tokens terminated by a single EOF token.
// Scanning never stops early: every bad character or unterminated string is
// recorded and the returned error is a Diagnostics listing all of them.
func (s *Scanner) ScanTokens(src string) ([]Token, error) {
	*s = Scanner{} // reset to zero value
	s.line = 1
	s.Tokens = make([]Token, 0, 8)
	s.srcRunes = []rune(src)

	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}

	s.Tokens = append(s.Tokens, Token{Type: EOF, Line: s.line})

	return s.Tokens, s.diagnostics.err()
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.srcRunes)
}

func (s *Scanner) scanError(msg string) {
	s.diagnostics = append(s.diagnostics, Diagnostic{Line: s.line, Message: msg})
}

func (s *Scanner) scanToken() {
	r := s.advance()
	switch r {
	// Single-character tokens
	case '(':
		s.addToken(LEFT_PAREN, nil)
	case ')':
		s.addToken(RIGHT_PAREN, nil)
	case '{':
		s.addToken(LEFT_BRACE, nil)
	case '}':
		s.addToken(RIGHT_BRACE, nil)
	case ',':
		s.addToken(COMMA, nil)
	case '.':
		s.addToken(DOT, nil)
	case '-':
		s.addToken(MINUS, nil)
	case '+':
		s.addToken(PLUS, nil)
	case ';':
		s.addToken(SEMICOLON, nil)
	case '*':
		s.addToken(STAR, nil)

	// 1-2 character tokens
	case '!':
		s.addToken(s.pick('=', BANG_EQUAL, BANG), nil)
	case '=':
		s.addToken(s.pick('=', EQUAL_EQUAL, EQUAL), nil)
	case '<':
		s.addToken(s.pick('=', LESS_EQUAL, LESS), nil)
	case '>':
		s.addToken(s.pick('=', GREATER_EQUAL, GREATER), nil)

	// comments and slash
	case '/':
		if s.matchNext('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		} else {
			s.addToken(SLASH, nil)
		}

	// ignore whitespace (mostly)
	case ' ', '\r', '\t':
	case '\n':
		s.line++

	// literals
	case '"':
		s.scanString()

	default:
		switch {
		case isDigit(r):
			s.scanNumber()
		case isAlpha(r):
			s.scanIdentifier()
		default:
			s.scanError(fmt.Sprintf("Unexpected character %q.", r))
		}
	}
}

// pick returns ifMatch, consuming the next rune, when it equals expected.
func (s *Scanner) pick(expected rune, ifMatch, otherwise TokenType) TokenType {
	if s.matchNext(expected) {
		return ifMatch
	}
	return otherwise
}

func (s *Scanner) advance() rune {
	ret := s.srcRunes[s.current]
	s.current++
	return ret
}

func (s *Scanner) matchNext(expected rune) bool {
	if s.isAtEnd() {
		return false
	}
	if s.srcRunes[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	return s.srcRunes[s.current]
}

func (s *Scanner) peekNext() rune {
	if s.current+1 >= len(s.srcRunes) {
		return 0
	}
	return s.srcRunes[s.current+1]
}

func (s *Scanner) scanString() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.isAtEnd() {
		s.scanError("Unterminated string.")
		return
	}

	s.advance() // consume the terminating '"'

	literal := string(s.srcRunes[s.start+1 : s.current-1]) // note we trim the leading/trailing quotes
	s.addToken(STRING, String(literal))
}

func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	str := string(s.srcRunes[s.start:s.current])
	literal, err := strconv.ParseFloat(str, 64)
	if err != nil {
		// only reachable for out-of-range literals
		s.scanError(fmt.Sprintf("Invalid number %q.", str))
		return
	}
	s.addToken(NUMBER, Number(literal))
}

func (s *Scanner) scanIdentifier() {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	lexeme := string(s.srcRunes[s.start:s.current])
	tokenType, found := keywords[lexeme]
	if !found {
		tokenType = IDENTIFIER
	}

	s.addToken(tokenType, nil)
}

func (s *Scanner) addToken(typ TokenType, literal Value) {
	lexeme := string(s.srcRunes[s.start:s.current])
	s.Tokens = append(s.Tokens, Token{typ, lexeme, literal, s.line})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
