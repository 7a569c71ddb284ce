package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldName = iota
	fieldEmail
	fieldCount
)

// loginForm is the sign-in form shown in the login state.
type loginForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newLoginForm() loginForm {
	var f loginForm

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 40
	name.Width = 30
	name.Prompt = "Name  > "

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 80
	email.Width = 30
	email.Prompt = "Email > "

	f.inputs[fieldName] = name
	f.inputs[fieldEmail] = email
	f.setFocus(fieldName)
	return f
}

// Values returns the trimmed field contents.
func (f loginForm) Values() (name, email string) {
	return f.inputs[fieldName].Value(), f.inputs[fieldEmail].Value()
}

// SetError shows a validation message under the form.
func (f *loginForm) SetError(err error) {
	f.err = ""
	if err != nil {
		f.err = err.Error()
	}
}

func (f *loginForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// Update moves focus between fields and forwards typing to the focused one.
// Submit and cancel keys are handled by the caller.
func (f loginForm) Update(msg tea.Msg, keys KeyMap) (loginForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.NextField):
			f.setFocus(f.focus + 1)
			return f, textinput.Blink
		case key.Matches(km, keys.PrevField):
			f.setFocus(f.focus - 1)
			return f, textinput.Blink
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form box.
func (f loginForm) View(width int) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("LOCKRUSH - sign in"))
	b.WriteString("\n")
	for i := range f.inputs {
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(f.err))
	}

	return center(boxStyle.Render(b.String()), width)
}
