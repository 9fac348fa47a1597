// ABOUTME: Actions menu listing every dashboard command
// ABOUTME: huh select whose choice is replayed as the matching keyboard shortcut

package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/markalston/autoclick-dashboard/internal/tui/styles"
)

// Option is one menu entry; Key is the dashboard shortcut it triggers
type Option struct {
	Label   string
	Key     string
	Enabled bool
}

// ActionSelectedMsg is sent when an enabled option is chosen
type ActionSelectedMsg struct {
	Key string
}

// CancelledMsg is sent when the menu closes without an action
type CancelledMsg struct{}

// Menu is the actions menu
type Menu struct {
	options  []Option
	selected string
	form     *huh.Form
	done     bool
}

// New creates a menu over options; the first enabled option is preselected
func New(options []Option) *Menu {
	m := &Menu{options: options}

	var huhOptions []huh.Option[string]
	for _, opt := range options {
		label := opt.Label
		if !opt.Enabled {
			label = fmt.Sprintf("%s (unavailable)", label)
		}
		huhOptions = append(huhOptions, huh.NewOption(label, opt.Key))
		if m.selected == "" && opt.Enabled {
			m.selected = opt.Key
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Actions").
				Description("Use ↑/↓ to select, Enter to run, Esc to close").
				Options(huhOptions...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme())

	return m
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.done {
		m.done = true
		return m, m.choose(m.selected)
	}
	return m, cmd
}

// choose emits the selection when the option is enabled
func (m *Menu) choose(key string) tea.Cmd {
	for _, opt := range m.options {
		if opt.Key == key && opt.Enabled {
			return func() tea.Msg { return ActionSelectedMsg{Key: key} }
		}
	}
	return func() tea.Msg { return CancelledMsg{} }
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}
