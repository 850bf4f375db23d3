package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// statusLookup follows an existing job by id and shows its outcome.
type statusLookup struct {
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	idInput textinput.Model

	following  bool
	pollFailed bool
	jobID      string
	err       error
	tracker   jobTracker
	result    *resultView

	width  int
	height int
}

// NewStatusLookup creates the job lookup flow model.
func NewStatusLookup(deps Deps) tea.Model {
	return newStatusLookup(deps)
}

func newStatusLookup(deps Deps) *statusLookup {
	idInput := textinput.New()
	idInput.Placeholder = "job id"
	idInput.Focus()
	idInput.CharLimit = 128
	idInput.Width = 40

	ctx, cancel := context.WithCancel(context.Background())

	return &statusLookup{
		deps:    deps.withDefaults(),
		ctx:     ctx,
		cancel:  cancel,
		idInput: idInput,
		tracker: newJobTracker(),
		width:   80,
		height:  24,
	}
}

func (m *statusLookup) Init() tea.Cmd {
	return textinput.Blink
}

func (m *statusLookup) capturingInput() bool {
	return !m.following && !m.pollFailed && m.result == nil
}

func (m *statusLookup) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.result != nil {
			m.result.setSize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.following {
			return m, nil
		}
		var cmd tea.Cmd
		m.tracker.spinner, cmd = m.tracker.spinner.Update(msg)
		return m, cmd

	case statusUpdateMsg:
		if !m.tracker.owns(msg.jobID) {
			return m, nil
		}
		m.tracker.status = msg.status
		return m, m.tracker.session.next()

	case pollFinishedMsg:
		if !m.tracker.owns(msg.jobID) {
			return m, nil
		}
		m.tracker.stop()
		m.following = false
		if msg.err != nil {
			m.err = userFacingError(msg.err)
			m.pollFailed = true
			return m, nil
		}
		m.result = newResultView(ResultViewConfig{
			Title:         "Job " + msg.jobID,
			AllowCopy:     true,
			AllowDownload: true,
			AllowPreview:  true,
			OutputDir:     m.deps.OutputDir,
			Clipboard:     m.deps.Clipboard,
			Preview:       m.deps.Preview,
			Logger:        m.deps.Logger,
		}, *msg.final, "")
		m.result.setSize(m.width, m.height)
		return m, nil
	}

	if m.result != nil {
		return m, m.result.update(msg)
	}

	var cmd tea.Cmd
	if !m.following && !m.pollFailed {
		m.idInput, cmd = m.idInput.Update(msg)
	}
	return m, cmd
}

func (m *statusLookup) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case m.result != nil:
		switch key {
		case "esc":
			return m, navigateToMenu
		case "n":
			m.result.close()
			m.result = nil
			m.idInput.SetValue("")
			m.idInput.Focus()
			return m, textinput.Blink
		}
		return m, m.result.update(msg)

	case m.pollFailed:
		switch key {
		case "esc":
			return m, navigateToMenu
		case "n":
			m.pollFailed = false
			m.err = nil
			m.idInput.SetValue("")
			m.idInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case m.following:
		if key == "esc" || key == "x" {
			m.tracker.stop()
			m.following = false
			m.idInput.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	switch key {
	case "esc":
		return m, navigateToMenu
	case "enter":
		id := strings.TrimSpace(m.idInput.Value())
		if id == "" {
			m.err = errors.New("please enter a job ID")
			return m, nil
		}
		m.err = nil
		m.jobID = id
		m.following = true
		m.idInput.Blur()
		return m, m.tracker.follow(m.ctx, m.deps, id)
	}

	var cmd tea.Cmd
	m.idInput, cmd = m.idInput.Update(msg)
	return m, cmd
}

// Close stops polling and releases anything the flow published.
func (m *statusLookup) Close() {
	m.cancel()
	m.tracker.stop()
	if m.result != nil {
		m.result.close()
	}
}

func (m *statusLookup) View() string {
	if m.result != nil {
		return m.result.view()
	}

	var b strings.Builder
	b.WriteString(renderTitle("Look Up a Job"))

	if m.following {
		b.WriteString(renderJobLine(m.jobID, ""))
		b.WriteString("\n")
		b.WriteString(m.tracker.spinner.View() + " ")
		b.WriteString(renderStatusPanel(m.tracker.status))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("x / Esc stop following"))
		return b.String()
	}

	if m.pollFailed {
		b.WriteString(renderJobLine(m.jobID, ""))
		b.WriteString("\n")
		b.WriteString(renderStatusPanel(m.tracker.status))
		b.WriteString("\n")
		b.WriteString(renderInlineError(m.err) + "\n\n")
		b.WriteString(helpStyle.Render("n new lookup • Esc back to menu"))
		return b.String()
	}

	b.WriteString(boldStyle.Render("Job ID:") + "\n")
	b.WriteString(m.idInput.View() + "\n\n")
	if m.err != nil {
		b.WriteString(renderInlineError(m.err) + "\n\n")
	}
	b.WriteString(helpStyle.Render("Enter to follow • Esc back to menu"))
	return b.String()
}

