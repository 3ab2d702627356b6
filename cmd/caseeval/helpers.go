package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"caseeval/internal/config"
	"caseeval/internal/logging"
	"caseeval/internal/scoring"
)

// loadEngine resolves the rule set and compiles it.
func loadEngine() (*scoring.Engine, config.Rules, string, error) {
	rules, source, err := config.Resolve(rootFlags.rules)
	if err != nil {
		return nil, config.Rules{}, source, fmt.Errorf("load rules %s: %w", source, err)
	}
	engine, err := scoring.New(rules)
	if err != nil {
		return nil, config.Rules{}, source, fmt.Errorf("compile rules %s: %w", source, err)
	}
	logging.New("cli").Debug("rules loaded", "source", source)
	return engine, rules, source, nil
}

// openOutput returns w itself for an empty path, or a created file. The
// returned close func is always safe to call.
func openOutput(path string, w io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
