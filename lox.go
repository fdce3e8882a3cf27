// Package glox is a tree-walking interpreter for the Lox language.
//
// Source runs through four stages: Scanner, Parser, Resolver and
// Interpreter. Static diagnostics from the first three are all reported and
// prevent execution; a runtime error stops execution at the statement that
// raised it. Lox wires the stages together and reports through a Reporter.
package glox

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"
)

// Outcome is what one Run observed. Callers map it to exit codes.
type Outcome struct {
	HadError        bool
	HadRuntimeError bool
}

type Lox struct {
	interpreter *Interpreter
	reporter    Reporter
	logger      *slog.Logger
	natives     []*NativeFunction
}

type Option func(*Lox)

// WithStdout sets the print sink. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(l *Lox) {
		l.interpreter.Stdout = w
	}
}

// WithReporter sets where diagnostics go. Defaults to a WriterReporter on
// os.Stderr.
func WithReporter(r Reporter) Option {
	return func(l *Lox) {
		l.reporter = r
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lox) {
		l.logger = logger
	}
}

// WithClock replaces the time source behind the clock native.
func WithClock(now func() time.Time) Option {
	return func(l *Lox) {
		l.interpreter.now = now
	}
}

// WithNative adds a global native function next to clock.
func WithNative(name string, arity int, fn func(args []Value) (Value, error)) Option {
	return func(l *Lox) {
		l.natives = append(l.natives, NewNativeFunction(name, arity, fn))
	}
}

func New(opts ...Option) *Lox {
	l := &Lox{
		interpreter: &Interpreter{Stdout: os.Stdout},
		reporter:    WriterReporter{W: os.Stderr},
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.interpreter.logger = l.logger
	l.interpreter.ensureInit()
	for _, nf := range l.natives {
		l.interpreter.DefineGlobal(nf.Name, nf)
		l.logger.Debug("registered native", slog.String("name", nf.Name), slog.Int("arity", nf.Arity()))
	}
	return l
}

// Run executes one compilation unit. Globals defined by earlier runs stay
// visible, which is what a REPL session wants.
func (l *Lox) Run(src string) Outcome {
	var outcome Outcome

	tokens, scanErr := (&Scanner{}).ScanTokens(src)
	stmts, parseErr := (&Parser{Tokens: tokens}).Parse()
	l.logger.Debug("parsed source", slog.Int("tokens", len(tokens)), slog.Int("statements", len(stmts)))
	// scan and parse diagnostics are independent; report both sets
	scanFailed := l.reportStatic(scanErr)
	parseFailed := l.reportStatic(parseErr)
	if scanFailed || parseFailed {
		outcome.HadError = true
		return outcome
	}

	if l.reportStatic(NewResolver(l.interpreter).Resolve(stmts)) {
		outcome.HadError = true
		return outcome
	}
	l.logger.Debug("resolved locals", slog.Int("locals", len(l.interpreter.locals)))

	if err := l.interpreter.Interpret(stmts); err != nil {
		outcome.HadRuntimeError = true
		var rte *RuntimeError
		if errors.As(err, &rte) {
			l.reporter.RuntimeError(rte.Token.Line, rte.Message)
		} else {
			l.reporter.RuntimeError(0, err.Error())
		}
		l.logger.Debug("runtime error", slog.Any("error", err))
	}
	return outcome
}

// reportStatic forwards every diagnostic in err and reports whether there
// were any.
func (l *Lox) reportStatic(err error) bool {
	if err == nil {
		return false
	}
	var ds Diagnostics
	if !errors.As(err, &ds) {
		l.reporter.StaticError(0, "", err.Error())
		return true
	}
	for _, d := range ds {
		l.reporter.StaticError(d.Line, d.Where, d.Message)
	}
	return len(ds) > 0
}
