// ABOUTME: Target level editor as a bubbletea model
// ABOUTME: huh input accepting a whole number, where 0 means no limit

package targetform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/autoclick-dashboard/internal/botstate"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
)

// SubmittedMsg is sent with the validated level
type SubmittedMsg struct {
	Level int
}

// CancelledMsg is sent when the user backs out
type CancelledMsg struct{}

// Form edits the target level
type Form struct {
	form  *huh.Form
	value string
	width int
	done  bool
}

// New creates a form seeded with the current target
func New(current botstate.TargetLevel) *Form {
	f := &Form{}
	if v, ok := current.Value(); ok {
		f.value = strconv.Itoa(v)
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target level").
				Description("The bot stops after winning this level. 0 = unlimited").
				Placeholder("e.g., 25").
				CharLimit(6).
				Value(&f.value).
				Validate(ValidateTargetLevel),
		).Title("Set Target Level").
			Description("Sent with the next start or continue"),
	).WithTheme(styles.FormTheme()).
		WithShowHelp(true)

	return f
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted && !f.done {
		f.done = true
		level, err := ParseTargetLevel(f.value)
		if err != nil {
			return f, nil
		}
		return f, func() tea.Msg { return SubmittedMsg{Level: level} }
	}

	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	return f.form.View()
}

// ParseTargetLevel converts user input into a level
func ParseTargetLevel(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("must be a whole number")
	}
	if v < 0 {
		return 0, fmt.Errorf("must be 0 or greater")
	}
	return v, nil
}

// ValidateTargetLevel is the huh validator for the input
func ValidateTargetLevel(s string) error {
	_, err := ParseTargetLevel(s)
	return err
}
