package main

import (
	"errors"
	"io"

	"github.com/chzyer/readline"

	"github.com/sayotte/glox"
)

// runPrompt reads one line at a time and runs it against the same session,
// so definitions survive between lines. A mistake on one line only affects
// that line's outcome.
func runPrompt(l *glox.Lox, cfg Config, stdout, stderr io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			if len(line) == 0 {
				return nil
			}
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		l.Run(line)
	}
}
