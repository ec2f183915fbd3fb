// Package ui holds the terminal styles and the interactive prompts.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

var (
	// ErrCancelled is returned when the operator aborts a prompt.
	ErrCancelled = errors.New("prompt cancelled")

	// ErrNoAnswer is returned for a required question without a default
	// when no answer can be read.
	ErrNoAnswer = errors.New("no answer and no default")
)

// Question is one prompt. An empty answer falls back to Default.
type Question struct {
	Text     string
	Default  string
	Required bool
	// Validate, when set, rejects an answer; the prompt asks again.
	Validate func(answer string) error
}

// problem explains why answer cannot be accepted, or returns "".
func (q Question) problem(answer string) string {
	if q.Required && answer == "" {
		return "An answer is required."
	}
	if q.Validate != nil {
		if err := q.Validate(answer); err != nil {
			return err.Error()
		}
	}
	return ""
}

// Prompter collects answers from the operator.
type Prompter interface {
	Ask(q Question) (string, error)
	Confirm(question string, def bool) (bool, error)
}

// IsTerminal reports whether in is an interactive terminal.
func IsTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// NewPrompter returns a TerminalPrompter when in is a terminal and a
// LinePrompter otherwise.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	if IsTerminal(in) {
		return TerminalPrompter{In: in, Out: out}
	}
	return NewLinePrompter(in, out)
}

// TerminalPrompter runs each question as a small bubbletea program.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p TerminalPrompter) options() []tea.ProgramOption {
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	return opts
}

func (p TerminalPrompter) Ask(q Question) (string, error) {
	m, err := tea.NewProgram(NewInputModel(q), p.options()...).Run()
	if err != nil {
		return "", fmt.Errorf("asking %q: %w", q.Text, err)
	}

	model, ok := m.(InputModel)
	if !ok || model.Cancelled || !model.Done {
		return "", ErrCancelled
	}
	return model.Answer(), nil
}

func (p TerminalPrompter) Confirm(question string, def bool) (bool, error) {
	m, err := tea.NewProgram(ConfirmModel{Question: question, Default: def}, p.options()...).Run()
	if err != nil {
		return false, fmt.Errorf("asking %q: %w", question, err)
	}

	model, ok := m.(ConfirmModel)
	if !ok || model.Cancelled || !model.Done {
		return false, ErrCancelled
	}
	return model.Answer, nil
}

// LinePrompter reads one answer per line. It serves piped or redirected
// input, where there is no terminal to drive.
type LinePrompter struct {
	r   *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	return &LinePrompter{r: bufio.NewReader(in), out: out}
}

// readLine returns the next trimmed line. A final line without a newline
// still counts; io.EOF is returned only when nothing is left.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) Ask(q Question) (string, error) {
	for {
		fmt.Fprint(p.out, q.Text)
		if q.Default != "" {
			fmt.Fprintf(p.out, " [%s]", q.Default)
		}
		fmt.Fprint(p.out, " ")

		line, err := p.readLine()
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(p.out)
			if q.Required && q.Default == "" {
				return "", fmt.Errorf("%s: %w", q.Text, ErrNoAnswer)
			}
			return "", fmt.Errorf("%s: %w", q.Text, ErrCancelled)
		case err != nil:
			return "", fmt.Errorf("asking %q: %w", q.Text, err)
		}

		answer := line
		if answer == "" {
			answer = q.Default
		}
		if problem := q.problem(answer); problem != "" {
			fmt.Fprintln(p.out, Warning.Render(problem))
			continue
		}
		return answer, nil
	}
}

func (p *LinePrompter) Confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s] ", question, hint)

		line, err := p.readLine()
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(p.out)
			return false, fmt.Errorf("%s: %w", question, ErrCancelled)
		case err != nil:
			return false, fmt.Errorf("asking %q: %w", question, err)
		}

		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, Warning.Render("Please answer y or n."))
	}
}

// DefaultsPrompter accepts every default without asking.
type DefaultsPrompter struct{}

func (DefaultsPrompter) Ask(q Question) (string, error) {
	if q.Required && q.Default == "" {
		return "", fmt.Errorf("%s: %w", q.Text, ErrNoAnswer)
	}
	return q.Default, nil
}

func (DefaultsPrompter) Confirm(_ string, def bool) (bool, error) {
	return def, nil
}
