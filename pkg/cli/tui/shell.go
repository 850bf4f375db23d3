package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"web-cloner-go/pkg/cli/logger"
)

// shell wraps a model with sizing, a help overlay and a footer.
type shell struct {
	model  tea.Model
	width  int
	height int
	config shellConfig

	showHelp    bool
	helpContent string
}

// shellConfig configures the wrapper behavior
type shellConfig struct {
	Title       string
	ShowFooter  bool
	MinWidth    int           // Minimum terminal width
	MinHeight   int           // Minimum terminal height
	HelpContent func() string // Function to generate help text
}

func newShell(model tea.Model, config shellConfig) *shell {
	return &shell{
		model:  model,
		config: config,
		width:  80, // Default
		height: 24, // Default
	}
}

func (w *shell) Init() tea.Cmd {
	return w.model.Init()
}

func (w *shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		logger.Log("shell: WindowSizeMsg, width=%d, height=%d", msg.Width, msg.Height)
		w.width = max(msg.Width, w.config.MinWidth)
		w.height = max(msg.Height, w.config.MinHeight)

		var cmd tea.Cmd
		w.model, cmd = w.model.Update(tea.WindowSizeMsg{
			Width:  w.width,
			Height: w.height - w.footerHeight(),
		})
		return w, cmd

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			logger.Log("shell: quit")
			return w, tea.Quit
		}

		// If help is showing, only handle help-related keys
		if w.showHelp {
			switch key {
			case "?", "esc", "q":
				w.showHelp = false
			}
			return w, nil
		}

		if key == "?" && w.config.HelpContent != nil && !w.capturingInput() {
			w.showHelp = true
			w.helpContent = w.config.HelpContent()
			return w, nil
		}
	}

	var cmd tea.Cmd
	w.model, cmd = w.model.Update(msg)
	return w, cmd
}

func (w *shell) capturingInput() bool {
	if c, ok := w.model.(interface{ capturingInput() bool }); ok {
		return c.capturingInput()
	}
	return false
}

func (w *shell) footerHeight() int {
	if w.config.ShowFooter {
		return 1
	}
	return 0
}

func (w *shell) View() string {
	if w.showHelp {
		return w.renderHelpOverlay()
	}

	parts := []string{w.model.View()}
	if w.config.ShowFooter {
		parts = append(parts, w.renderFooter())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (w *shell) renderFooter() string {
	shortcuts := []string{}
	if w.config.HelpContent != nil {
		shortcuts = append(shortcuts, "? help")
	}
	shortcuts = append(shortcuts, "ctrl+c quit")
	if w.config.Title != "" {
		shortcuts = append([]string{w.config.Title}, shortcuts...)
	}

	return helpStyle.Render(strings.Join(shortcuts, " • "))
}

func (w *shell) renderHelpOverlay() string {
	helpText := w.helpContent
	if helpText == "" {
		helpText = "No help available"
	}

	overlayStyle := lipgloss.NewStyle().
		Width(w.width-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	title := titleStyle.Render("Keyboard Shortcuts")
	common := CommonHelpContent()
	closeHint := helpStyle.Render("Press '?' or Esc to close")

	return overlayStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, title, helpText, common, closeHint),
	)
}

// Close releases whatever the wrapped model holds.
func (w *shell) Close() {
	if c, ok := w.model.(interface{ Close() }); ok {
		c.Close()
	}
}
