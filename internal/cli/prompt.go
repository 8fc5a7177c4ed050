package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input.
type Prompter interface {
	// Input reads a line. An empty answer yields def.
	Input(label, def string) (string, error)
	// Password reads a line without echo.
	Password(label string) (string, error)
	// Select lists options and returns the index of the chosen one. An
	// empty answer yields def.
	Select(label string, options []string, def int) (int, error)
	// Confirm asks a yes/no question. An empty answer yields def.
	Confirm(label string, def bool) (bool, error)
	Close() error
}

// ReadlinePrompter prompts on a terminal through readline.
type ReadlinePrompter struct {
	rl  *readline.Instance
	out io.Writer
}

// NewPrompter creates a prompter reading from in and writing to out.
func NewPrompter(in io.ReadCloser, out io.Writer) (*ReadlinePrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Stdin:           in,
		Stdout:          out,
		Stderr:          out,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	return &ReadlinePrompter{rl: rl, out: out}, nil
}

func (p *ReadlinePrompter) readLine(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrAborted
	}
	if err != nil {
		return "", fmt.Errorf("readline error: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *ReadlinePrompter) Input(label, def string) (string, error) {
	prompt := label + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, def)
	}
	answer, err := p.readLine(prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *ReadlinePrompter) Password(label string) (string, error) {
	data, err := p.rl.ReadPassword(label + ": ")
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrAborted
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}

func (p *ReadlinePrompter) Select(label string, options []string, def int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("nothing to choose from")
	}

	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		marker := " "
		if i == def {
			marker = ">"
		}
		fmt.Fprintf(p.out, "%s %2d) %s\n", marker, i+1, opt)
	}

	for {
		answer, err := p.readLine(fmt.Sprintf("Choice [%d]: ", def+1))
		if err != nil {
			return 0, err
		}
		index, err := ParseChoice(answer, len(options), def)
		if err == nil {
			return index, nil
		}
		fmt.Fprintln(p.out, err)
	}
}

func (p *ReadlinePrompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		answer, err := p.readLine(fmt.Sprintf("%s [%s]: ", label, hint))
		if err != nil {
			return false, err
		}
		ok, err := ParseConfirm(answer, def)
		if err == nil {
			return ok, nil
		}
		fmt.Fprintln(p.out, err)
	}
}

func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}

// ParseChoice converts a 1-based answer to an index in [0, count).
func ParseChoice(answer string, count, def int) (int, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		if def < 0 || def >= count {
			return 0, fmt.Errorf("please enter a number between 1 and %d", count)
		}
		return def, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > count {
		return 0, fmt.Errorf("please enter a number between 1 and %d", count)
	}
	return n - 1, nil
}

// ParseConfirm interprets a yes/no answer.
func ParseConfirm(answer string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, nil
	case "y", "yes", "o", "oui":
		return true, nil
	case "n", "no", "non":
		return false, nil
	default:
		return false, fmt.Errorf("please answer yes or no")
	}
}
