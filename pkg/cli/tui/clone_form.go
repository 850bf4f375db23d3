package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/utils"
)

// cloneForm is the Bubble Tea model for submitting a URL and following the
// job until its result can be shown.
type cloneForm struct {
	deps Deps

	ctx    context.Context
	cancel context.CancelFunc

	urlInput textinput.Model

	step    int
	err     error
	warning string
	job     *models.CloneJob
	tracker jobTracker
	result  *resultView

	width  int
	height int
}

const (
	stepURLInput = iota
	stepSubmitting
	stepPolling
	stepPollError
	stepResult
)

// NewCloneForm creates the clone flow model.
func NewCloneForm(deps Deps) tea.Model {
	return newCloneForm(deps)
}

func newCloneForm(deps Deps) *cloneForm {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com"
	urlInput.Focus()
	urlInput.CharLimit = 2048
	urlInput.Width = 60

	ctx, cancel := context.WithCancel(context.Background())

	return &cloneForm{
		deps:     deps.withDefaults(),
		ctx:      ctx,
		cancel:   cancel,
		urlInput: urlInput,
		step:     stepURLInput,
		tracker:  newJobTracker(),
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m *cloneForm) Init() tea.Cmd {
	return textinput.Blink
}

// capturingInput reports whether keys are being typed into the URL field.
func (m *cloneForm) capturingInput() bool {
	return m.step == stepURLInput
}

// Update implements tea.Model.
func (m *cloneForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if m.step != stepSubmitting && m.step != stepPolling {
			return m, nil
		}
		var cmd tea.Cmd
		m.tracker.spinner, cmd = m.tracker.spinner.Update(msg)
		return m, cmd

	case submitErrorMsg:
		if m.step != stepSubmitting {
			return m, nil
		}
		m.err = userFacingError(msg.err)
		m.step = stepURLInput
		m.urlInput.Focus()
		return m, textinput.Blink

	case jobStartedMsg:
		if m.step != stepSubmitting {
			return m, nil
		}
		m.job = msg.job
		m.urlInput.SetValue("")
		m.step = stepPolling
		m.deps.Logger.WithField("job_id", msg.job.ID).Debug("following job")
		return m, m.tracker.follow(m.ctx, m.deps, msg.job.ID)

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
		if msg.err != nil {
			// keep the last status on screen next to the error
			m.err = userFacingError(msg.err)
			m.step = stepPollError
			return m, nil
		}
		m.showResult(*msg.final)
		return m, nil
	}

	if m.step == stepResult {
		return m, m.result.update(msg)
	}

	var cmd tea.Cmd
	if m.step == stepURLInput {
		m.urlInput, cmd = m.urlInput.Update(msg)
	}
	return m, cmd
}

func (m *cloneForm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.step {
	case stepURLInput:
		switch msg.String() {
		case "esc":
			return m, navigateToMenu
		case "enter":
			return m.submit()
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd

	case stepSubmitting:
		if msg.String() == "esc" {
			return m, navigateToMenu
		}
		return m, nil

	case stepPolling:
		switch msg.String() {
		case "esc", "x":
			m.tracker.stop()
			m.warning = "Stopped following job " + m.job.ID
			m.step = stepURLInput
			m.urlInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case stepPollError:
		switch msg.String() {
		case "esc":
			return m, navigateToMenu
		case "n":
			m.reset()
			return m, textinput.Blink
		}
		return m, nil

	case stepResult:
		switch msg.String() {
		case "esc":
			return m, navigateToMenu
		case "n":
			m.reset()
			return m, textinput.Blink
		}
		return m, m.result.update(msg)
	}

	return m, nil
}

// submit validates the URL locally and only then starts the job.
func (m *cloneForm) submit() (tea.Model, tea.Cmd) {
	target, err := utils.ValidateURL(m.urlInput.Value())
	if err != nil {
		m.deps.Logger.WithError(err).Debug("url rejected")
		m.err = errors.New(utils.InvalidURLMessage)
		return m, nil
	}

	m.err = nil
	m.warning = ""
	m.step = stepSubmitting
	m.urlInput.Blur()

	svc := m.deps.Service
	ctx := m.ctx
	return m, tea.Batch(m.tracker.spinner.Tick, func() tea.Msg {
		job, err := svc.StartClone(ctx, target)
		if err != nil {
			return submitErrorMsg{err: err}
		}
		return jobStartedMsg{job: job}
	})
}

func (m *cloneForm) showResult(final models.CloneStatus) {
	m.result = newResultView(ResultViewConfig{
		Title:         "Cloned Website",
		AllowCopy:     true,
		AllowDownload: true,
		AllowPreview:  true,
		OutputDir:     m.deps.OutputDir,
		Clipboard:     m.deps.Clipboard,
		Preview:       m.deps.Preview,
		Logger:        m.deps.Logger,
	}, final, m.job.URL)
	m.result.setSize(m.width, m.height)
	m.step = stepResult
}

// reset closes the current result and returns to the URL input.
func (m *cloneForm) reset() {
	m.tracker.stop()
	if m.result != nil {
		m.result.close()
		m.result = nil
	}
	m.job = nil
	m.err = nil
	m.warning = ""
	m.step = stepURLInput
	m.urlInput.SetValue("")
	m.urlInput.Focus()
}

// Close stops polling and releases anything the flow published.
func (m *cloneForm) Close() {
	m.cancel()
	m.tracker.stop()
	if m.result != nil {
		m.result.close()
	}
}

// View implements tea.Model.
func (m *cloneForm) View() string {
	if m.step == stepResult {
		return m.result.view()
	}

	var b strings.Builder
	b.WriteString(renderTitle("Clone a Website"))

	switch m.step {
	case stepURLInput:
		b.WriteString(boldStyle.Render("Website URL:") + "\n")
		b.WriteString(m.urlInput.View() + "\n\n")
		if m.err != nil {
			b.WriteString(renderInlineError(m.err) + "\n\n")
		}
		if m.warning != "" {
			b.WriteString(renderWarning(m.warning) + "\n\n")
		}
		b.WriteString(helpStyle.Render("Enter to clone • Esc back to menu"))

	case stepSubmitting:
		b.WriteString(m.tracker.spinner.View() + " " + infoStyle.Render("Starting clone job...") + "\n\n")
		b.WriteString(helpStyle.Render("Esc back to menu"))

	case stepPolling:
		b.WriteString(renderJobLine(m.job.ID, m.job.URL))
		b.WriteString("\n")
		b.WriteString(m.tracker.spinner.View() + " ")
		b.WriteString(renderStatusPanel(m.tracker.status))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("x / Esc stop following"))

	case stepPollError:
		b.WriteString(renderJobLine(m.job.ID, m.job.URL))
		b.WriteString("\n")
		b.WriteString(renderStatusPanel(m.tracker.status))
		b.WriteString("\n")
		b.WriteString(renderInlineError(m.err) + "\n\n")
		b.WriteString(helpStyle.Render("n new clone • Esc back to menu"))
	}

	return b.String()
}

func navigateToMenu() tea.Msg {
	return MenuNavigationMsg{}
}
