package tui

import (
	"context"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/render"
)

// CloneClient starts clone jobs and reports their status. *cloner.CloneService
// satisfies it.
type CloneClient interface {
	StartClone(ctx context.Context, url string) (*models.CloneJob, error)
	cloner.StatusGetter
}

// Deps are the shared dependencies of every flow.
type Deps struct {
	Service     CloneClient
	Poller      cloner.PollerConfig
	PollTimeout time.Duration
	Clipboard   render.Clipboard
	// Preview serves results to a browser. Nil disables browser preview.
	Preview   Publisher
	OutputDir string
	Logger    logrus.FieldLogger
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		d.Logger = l
	}
	if d.OutputDir == "" {
		d.OutputDir = "."
	}
	if d.Poller.Logger == nil {
		d.Poller.Logger = d.Logger
	}
	return d
}

// flow is a sub-model launched from the menu.
type flow interface {
	tea.Model
	Close()
}

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	deps Deps

	// Current active flow (when nil, we are in the main menu)
	current flow

	width  int
	height int
}

// NewRootModel constructs the root app-shell model that can launch multiple flows.
func NewRootModel(deps Deps) tea.Model {
	root := newRootModel(deps)
	return newShell(root, shellConfig{
		Title:       "Web Cloner",
		ShowFooter:  true,
		MinWidth:    40,
		MinHeight:   12,
		HelpContent: root.helpContent,
	})
}

func newRootModel(deps Deps) *rootModel {
	return &rootModel{
		deps:   deps.withDefaults(),
		width:  80,
		height: 24,
	}
}

func (m *rootModel) Init() tea.Cmd {
	// No async work on start; just render the menu.
	return nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MenuNavigationMsg:
		m.closeFlow()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}

	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		_, cmd := m.current.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "1":
			return m, m.open(newCloneForm(m.deps))
		case "2":
			return m, m.open(newStatusLookup(m.deps))
		}
	}

	return m, nil
}

// open makes f the active flow and sizes it to the terminal.
func (m *rootModel) open(f flow) tea.Cmd {
	m.current = f
	m.current.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return m.current.Init()
}

func (m *rootModel) closeFlow() {
	if m.current != nil {
		m.current.Close()
		m.current = nil
	}
}

// Close releases the active flow.
func (m *rootModel) Close() {
	m.closeFlow()
}

// capturingInput reports whether the active flow is reading text input.
func (m *rootModel) capturingInput() bool {
	if c, ok := m.current.(interface{ capturingInput() bool }); ok {
		return c.capturingInput()
	}
	return false
}

func (m *rootModel) helpContent() string {
	switch c := m.current.(type) {
	case *cloneForm:
		if c.step == stepResult {
			return ResultViewHelpContent()
		}
		return CloneFormHelpContent()
	case *statusLookup:
		if c.result != nil {
			return ResultViewHelpContent()
		}
		return StatusLookupHelpContent()
	}
	return RootMenuHelpContent()
}

func (m *rootModel) View() string {
	// When a flow is active, defer to its view.
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(renderTitle("Web Cloner"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")
	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " Clone a website\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " Look up a job\n")
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press the number of an option, or 'q' / Esc to quit.") + "\n")

	return b.String()
}
