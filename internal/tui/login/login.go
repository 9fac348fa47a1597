// ABOUTME: Master password screen shown before the dashboard
// ABOUTME: Masked text input that submits a trimmed, non-empty password

package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/autoclick-dashboard/internal/tui/icons"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
)

// SubmittedMsg is sent when the user submits a password
type SubmittedMsg struct {
	Password string
}

// CancelledMsg is sent when the user leaves the login screen
type CancelledMsg struct{}

// Login is the password prompt
type Login struct {
	input  textinput.Model
	err    string
	width  int
	height int
}

// New creates a focused, masked password input
func New() *Login {
	ti := textinput.New()
	ti.Placeholder = "master password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Width = 32
	ti.Focus()

	return &Login{input: ti}
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
		return l, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			password := strings.TrimSpace(l.input.Value())
			if password == "" {
				l.err = "Password is required"
				return l, nil
			}
			l.err = ""
			return l, func() tea.Msg { return SubmittedMsg{Password: password} }
		case "esc":
			return l, func() tea.Msg { return CancelledMsg{} }
		}
		// Clear error once the user starts typing again
		l.err = ""
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

// SetError shows a message under the input and clears the field
func (l *Login) SetError(msg string) {
	l.err = msg
	l.input.Reset()
}

// Error returns the message currently shown
func (l *Login) Error() string {
	return l.err
}

// Value returns the raw input text
func (l *Login) Value() string {
	return l.input.Value()
}

// View implements tea.Model
func (l *Login) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Lock.String() + " Enter master password"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("The password is kept in memory for this session only"))
	sb.WriteString("\n\n")
	sb.WriteString(l.input.View())
	sb.WriteString("\n\n")
	if l.err != "" {
		sb.WriteString(styles.StatusCritical.Render(l.err))
	}

	box := styles.ActivePanel.Padding(1, 2).Render(sb.String())
	if l.width == 0 || l.height == 0 {
		return box
	}
	return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, box)
}
