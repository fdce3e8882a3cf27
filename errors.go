package glox

import (
	"fmt"
	"io"
	"strings"
)

// Diagnostic is a static (scan, parse or resolve time) error. Where is the
// location context, e.g. " at end" or " at 'foo'", and may be empty.
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

func tokenDiagnostic(tok Token, msg string) Diagnostic {
	where := " at '" + tok.Lexeme + "'"
	if tok.Type == EOF {
		where = " at end"
	}
	return Diagnostic{Line: tok.Line, Where: where, Message: msg}
}

// Diagnostics is every static error found in one pass, in source order.
type Diagnostics []Diagnostic

func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

func (ds Diagnostics) Unwrap() []error {
	errs := make([]error, len(ds))
	for i, d := range ds {
		errs[i] = d
	}
	return errs
}

// err returns ds as an error, or nil when there is nothing to report.
func (ds Diagnostics) err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}

// RuntimeError halts execution. Token points at the operator, name or paren
// that caused it.
type RuntimeError struct {
	Token   Token
	Message string
}

func (rte *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error on line %d: %s", rte.Token.Line, rte.Message)
}

func newRuntimeError(tok Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// Reporter receives every static diagnostic and the runtime failure that
// stops a run. It must not exit the process.
type Reporter interface {
	StaticError(line int, where, message string)
	RuntimeError(line int, message string)
}

// WriterReporter prints diagnostics in the conventional Lox layout.
type WriterReporter struct {
	W io.Writer
}

func (wr WriterReporter) StaticError(line int, where, message string) {
	_, _ = fmt.Fprintf(wr.W, "[line %d] Error%s: %s\n", line, where, message)
}

func (wr WriterReporter) RuntimeError(line int, message string) {
	_, _ = fmt.Fprintf(wr.W, "%s\n[line %d]\n", message, line)
}
