package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/sayotte/glox"
)

// exit codes follow sysexits.h
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("glox", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, "Usage: glox [flags] [script]")
		fs.PrintDefaults()
	}
	configPath := fs.StringP("config", "c", "", "path to a YAML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	noColor := fs.Bool("no-color", false, "disable colored diagnostics")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "glox: %s\n", err)
		return exitUsage
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if *noColor {
		cfg.Color = false
	}
	level, err := cfg.level()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "glox: %s\n", err)
		return exitUsage
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	l := glox.New(
		glox.WithStdout(stdout),
		glox.WithReporter(newColorReporter(stderr, cfg.Color)),
		glox.WithLogger(logger),
	)

	if fs.NArg() == 1 {
		return runFile(l, fs.Arg(0), stderr)
	}
	if err := runPrompt(l, cfg, stdout, stderr); err != nil {
		logger.Error("prompt failed", slog.Any("error", err))
		return exitIOErr
	}
	return exitOK
}

func runFile(l *glox.Lox, path string, stderr io.Writer) int {
	fBytes, err := os.ReadFile(path)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "glox: %s\n", err)
		return exitIOErr
	}
	outcome := l.Run(string(fBytes))
	switch {
	case outcome.HadError:
		return exitDataErr
	case outcome.HadRuntimeError:
		return exitSoftware
	}
	return exitOK
}
