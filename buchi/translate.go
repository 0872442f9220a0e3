package buchi

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrTranslate is returned when the translator rejects the formula
var ErrTranslate = errors.New("buchi: translator rejected the formula")

const defaultCommand = "ltl3ba"

// Translator compiles an LTL formula into a never claim
type Translator interface {
	Translate(ctx context.Context, formula string) (string, error)
}

// Use a function as a Translator
type TranslatorFunc func(ctx context.Context, formula string) (string, error)

func (f TranslatorFunc) Translate(ctx context.Context, formula string) (string, error) {
	return f(ctx, formula)
}

// CommandTranslator runs an external translator as a subprocess.
//
// The command is called with the extra arguments followed by -f and the formula.
// If Command is empty ltl3ba is used.
type CommandTranslator struct {
	Command string
	Args    []string
}

func (c CommandTranslator) Translate(ctx context.Context, formula string) (string, error) {
	command := c.Command
	if command == "" {
		command = defaultCommand
	}
	args := append(append([]string{}, c.Args...), "-f", formula)
	cmd := exec.CommandContext(ctx, command, args...)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()

	output := stdout.String()
	if strings.Contains(output, "expected predicate, saw") || strings.Contains(stderr.String(), "expected predicate, saw") {
		return "", errors.Wrapf(ErrTranslate, "%v could not parse %q: %v", command, formula, strings.TrimSpace(output+stderr.String()))
	}
	if err != nil {
		return "", errors.Wrapf(err, "buchi: running %v failed: %v", command, strings.TrimSpace(stderr.String()))
	}
	return output, nil
}

// Translate the formula and parse the resulting never claim
func FromLTL(ctx context.Context, translator Translator, formula string) (*Automaton, error) {
	if translator == nil {
		translator = CommandTranslator{}
	}
	text, err := translator.Translate(ctx, formula)
	if err != nil {
		return nil, err
	}
	a, err := Parse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "translating %q", formula)
	}
	return a, nil
}
