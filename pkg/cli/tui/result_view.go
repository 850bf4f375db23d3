package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/preview"
	"web-cloner-go/pkg/render"
)

// Publisher hosts pages for viewing in a browser. *preview.Server satisfies it.
type Publisher interface {
	Start() error
	Publish(html string) (*preview.Handle, error)
}

// ResultViewConfig selects which actions a result view offers.
type ResultViewConfig struct {
	Title         string
	AllowCopy     bool
	AllowDownload bool
	AllowPreview  bool

	OutputDir string
	Clipboard render.Clipboard
	Preview   Publisher
	Logger    logrus.FieldLogger
}

// resultView shows a finished job: generated code or a simulated device
// preview, with copy, download and browser preview actions.
type resultView struct {
	cfg    ResultViewConfig
	status models.CloneStatus
	url    string

	showCode   bool
	fullscreen bool
	mode       render.ViewMode

	viewport viewport.Model
	width    int
	height   int

	notice    string
	noticeErr bool

	handle *preview.Handle
	closed bool
}

// chrome is the number of lines the view uses around the viewport when not
// in fullscreen.
const chrome = 8

func newResultView(cfg ResultViewConfig, status models.CloneStatus, url string) *resultView {
	if cfg.Title == "" {
		cfg.Title = "Cloned Website"
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	if cfg.Preview == nil {
		cfg.AllowPreview = false
	}

	v := &resultView{
		cfg:      cfg,
		status:   status,
		url:      url,
		mode:     render.ViewDesktop,
		viewport: viewport.New(80, 16),
		width:    80,
		height:   24,
	}
	v.refresh()
	return v
}

func (v *resultView) succeeded() bool {
	return v.status.Status == models.StageCompleted
}

func (v *resultView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.layout()
	v.refresh()
}

func (v *resultView) layout() {
	h := v.height - chrome
	if v.fullscreen {
		h = v.height - 1
	}
	v.viewport.Width = max(v.width, 20)
	v.viewport.Height = max(h, 3)
}

// refresh re-renders the viewport content for the current mode.
func (v *resultView) refresh() {
	if !v.succeeded() {
		v.viewport.SetContent(renderStatusPanel(v.status))
		return
	}

	if v.showCode {
		v.viewport.SetContent(render.FormatHTML(v.status.HTML))
		return
	}

	cols := v.mode.Columns(v.viewport.Width - 2)
	body := render.TextPreview(v.status.HTML, max(cols-2, 10))
	v.viewport.SetContent(deviceFrameStyle.Width(cols).Render(body))
}

func (v *resultView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case copyResultMsg:
		if msg.err != nil {
			v.cfg.Logger.WithError(msg.err).Warn("copy failed")
			v.setNotice(render.CopyFailedMessage, true)
		} else {
			v.setNotice("Copied to clipboard", false)
		}
		return nil

	case downloadResultMsg:
		if msg.err != nil {
			v.setNotice(msg.err.Error(), true)
		} else {
			v.setNotice("Saved "+msg.path, false)
		}
		return nil

	case previewOpenedMsg:
		if msg.err != nil {
			v.setNotice(msg.err.Error(), true)
			return nil
		}
		if v.closed {
			msg.handle.Release()
			return nil
		}
		v.handle.Release()
		v.handle = msg.handle
		v.setNotice("Preview at "+v.handle.URL(v.mode), false)
		return nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *resultView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !v.succeeded() {
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "c":
		v.showCode = !v.showCode
		v.viewport.GotoTop()
		v.refresh()
		return nil
	case "f":
		v.fullscreen = !v.fullscreen
		v.layout()
		v.refresh()
		return nil
	case "v":
		v.setMode(v.mode.Next())
		return nil
	case "1":
		v.setMode(render.ViewDesktop)
		return nil
	case "2":
		v.setMode(render.ViewTablet)
		return nil
	case "3":
		v.setMode(render.ViewMobile)
		return nil
	case "y":
		if !v.cfg.AllowCopy {
			return nil
		}
		return copyCmd(v.cfg.Clipboard, v.status.HTML)
	case "d":
		if !v.cfg.AllowDownload {
			return nil
		}
		return downloadCmd(v.cfg.OutputDir, v.status.HTML)
	case "p":
		if !v.cfg.AllowPreview {
			return nil
		}
		return publishCmd(v.cfg.Preview, v.status.HTML)
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *resultView) setMode(mode render.ViewMode) {
	v.mode = mode
	v.showCode = false
	v.refresh()
	if v.handle != nil {
		v.setNotice("Preview at "+v.handle.URL(v.mode), false)
	}
}

func (v *resultView) setNotice(text string, isErr bool) {
	v.notice = text
	v.noticeErr = isErr
}

// close releases the browser preview, if any.
func (v *resultView) close() {
	v.closed = true
	v.handle.Release()
	v.handle = nil
}

func (v *resultView) view() string {
	if v.fullscreen {
		return lipgloss.JoinVertical(lipgloss.Left,
			v.viewport.View(),
			helpStyle.Render("f exit fullscreen • ↑/↓ scroll"),
		)
	}

	var b strings.Builder
	b.WriteString(renderTitle(v.cfg.Title))
	b.WriteString(renderJobLine(v.status.ID, v.url))

	if v.succeeded() {
		b.WriteString(v.renderTabs())
		b.WriteString("\n")
	}
	b.WriteString(renderDivider(min(v.width, 80)))
	b.WriteString("\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")

	switch {
	case v.notice == "":
		b.WriteString("\n")
	case v.noticeErr:
		b.WriteString(renderError(v.notice) + "\n")
	default:
		b.WriteString(renderSuccess(v.notice) + "\n")
	}

	b.WriteString(helpStyle.Render(v.shortcuts()))
	return b.String()
}

func (v *resultView) renderTabs() string {
	tab := func(label string, active bool) string {
		if active {
			return activeTabStyle.Render(label)
		}
		return inactiveTabStyle.Render(label)
	}

	parts := []string{
		tab("Code", v.showCode),
		tab("Preview", !v.showCode),
		" ",
	}
	for _, m := range render.ViewModes {
		parts = append(parts, tab(m.Label(), !v.showCode && m == v.mode))
	}

	if d := v.mode.Dimensions(); !d.Fluid && !v.showCode {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("  %d×%d", d.Width, d.Height)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (v *resultView) shortcuts() string {
	if !v.succeeded() {
		return "↑/↓ scroll • n new • esc menu"
	}

	keys := []string{"c code/preview", "v/1-3 view", "f fullscreen"}
	if v.cfg.AllowCopy {
		keys = append(keys, "y copy")
	}
	if v.cfg.AllowDownload {
		keys = append(keys, "d download")
	}
	if v.cfg.AllowPreview {
		keys = append(keys, "p browser")
	}
	keys = append(keys, "n new", "esc menu")
	return strings.Join(keys, " • ")
}

func copyCmd(cb render.Clipboard, html string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: render.CopyHTML(cb, html)}
	}
}

func downloadCmd(dir, html string) tea.Cmd {
	return func() tea.Msg {
		path, err := render.SaveHTML(dir, html)
		return downloadResultMsg{path: path, err: err}
	}
}

func publishCmd(p Publisher, html string) tea.Cmd {
	return func() tea.Msg {
		if err := p.Start(); err != nil {
			return previewOpenedMsg{err: fmt.Errorf("failed to start preview server: %w", err)}
		}
		h, err := p.Publish(html)
		if err != nil {
			return previewOpenedMsg{err: err}
		}
		return previewOpenedMsg{handle: h}
	}
}

