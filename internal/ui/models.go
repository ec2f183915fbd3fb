package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputModel asks a single question with an optional default answer.
type InputModel struct {
	Question  Question
	TextInput textinput.Model
	Done      bool
	Cancelled bool
	problem   string
}

func NewInputModel(q Question) InputModel {
	ti := textinput.New()
	ti.Placeholder = q.Default
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	return InputModel{Question: q, TextInput: ti}
}

func (m InputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			if m.problem = m.Question.problem(m.Answer()); m.problem != "" {
				return m, nil
			}
			m.Done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.TextInput, cmd = m.TextInput.Update(msg)
	m.problem = ""
	return m, cmd
}

// Answer is the trimmed input, or the default when nothing was typed.
func (m InputModel) Answer() string {
	if v := strings.TrimSpace(m.TextInput.Value()); v != "" {
		return v
	}
	return m.Question.Default
}

func (m InputModel) View() string {
	if m.Done {
		return titleStyle.Render(m.Question.Text) + " " + m.Answer() + "\n"
	}

	s := titleStyle.Render(m.Question.Text)
	if m.Question.Default != "" {
		s += " " + defaultStyle.Render(fmt.Sprintf("[%s]", m.Question.Default))
	}
	s += "\n" + inputStyle.Render(m.TextInput.View()) + "\n"
	if m.problem != "" {
		s += inputStyle.Render(Warning.Render(m.problem)) + "\n"
	}
	return s
}

// ConfirmModel handles a yes/no question. Enter picks the default.
type ConfirmModel struct {
	Question  string
	Default   bool
	Done      bool
	Cancelled bool
	Answer    bool
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			m.Done = true
			m.Answer = true
			return m, tea.Quit
		case "n", "N":
			m.Done = true
			m.Answer = false
			return m, tea.Quit
		case "enter":
			m.Done = true
			m.Answer = m.Default
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.Cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	hint := "y/N"
	if m.Default {
		hint = "Y/n"
	}
	s := titleStyle.Render(m.Question) + " " + defaultStyle.Render("["+hint+"]")
	if m.Done {
		answer := "no"
		if m.Answer {
			answer = "yes"
		}
		return s + " " + answer + "\n"
	}
	return s + "\n"
}
