package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/preview"
	"web-cloner-go/pkg/render"
	"web-cloner-go/pkg/utils"
)

const sampleHTML = `<html><body><h1>Hello</h1><p>World</p></body></html>`

// fakeClient replays statuses in order, repeating the last one.
type fakeClient struct {
	mu       sync.Mutex
	statuses []models.CloneStatus
	calls    int
	started  []string
	startErr error
}

func (f *fakeClient) StartClone(ctx context.Context, url string) (*models.CloneJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, url)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &models.CloneJob{ID: "job-1", URL: url, Status: models.JobStatusPending}, nil
}

func (f *fakeClient) GetStatus(ctx context.Context, jobID string) (*models.CloneStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.statuses[min(f.calls, len(f.statuses)-1)]
	f.calls++
	st.ID = jobID
	return &st, nil
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs a session to completion and returns every message it produced.
func drain(t *testing.T, s *pollSession) []tea.Msg {
	t.Helper()

	done := make(chan []tea.Msg)
	go func() {
		var msgs []tea.Msg
		for {
			msg := s.next()()
			if msg == nil {
				done <- msgs
				return
			}
			msgs = append(msgs, msg)
		}
	}()

	select {
	case msgs := <-done:
		return msgs
	case <-time.After(5 * time.Second):
		t.Fatal("poll session did not finish")
		return nil
	}
}

func completed() models.CloneStatus {
	return models.CloneStatus{
		ID:       "job-1",
		Status:   models.StageCompleted,
		Progress: 100,
		Message:  "Website cloned successfully.",
		HTML:     sampleHTML,
	}
}

func TestStartPoll(t *testing.T) {
	tests := map[string]struct {
		statuses    []models.CloneStatus
		pollTimeout time.Duration
		interval    time.Duration
		expUpdates  int
		expStage    models.Stage
		expErrType  cloner.ErrorType
	}{
		"runs to completion": {
			statuses: []models.CloneStatus{
				{Status: models.StageScraping, Progress: 30},
				{Status: models.StageGenerating, Progress: 70},
				completed(),
			},
			interval:   time.Millisecond,
			expUpdates: 3,
			expStage:   models.StageCompleted,
		},
		"failed job is terminal": {
			statuses:   []models.CloneStatus{{Status: models.StageFailed, Progress: 100, Error: "boom"}},
			interval:   time.Millisecond,
			expUpdates: 1,
			expStage:   models.StageFailed,
		},
		"deadline ends polling": {
			statuses:    []models.CloneStatus{{Status: models.StagePending}},
			pollTimeout: 20 * time.Millisecond,
			interval:    time.Hour,
			expUpdates:  1,
			expErrType:  cloner.ErrorTypeTimeout,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			deps := Deps{
				Service:     &fakeClient{statuses: test.statuses},
				Poller:      cloner.PollerConfig{Interval: test.interval},
				PollTimeout: test.pollTimeout,
			}.withDefaults()

			s := startPoll(context.Background(), deps, "job-1")
			defer s.stop()
			msgs := drain(t, s)
			require.NotEmpty(msgs)

			updates := 0
			for _, msg := range msgs[:len(msgs)-1] {
				up, ok := msg.(statusUpdateMsg)
				require.True(ok)
				assert.Equal("job-1", up.jobID)
				updates++
			}
			assert.Equal(test.expUpdates, updates)

			fin, ok := msgs[len(msgs)-1].(pollFinishedMsg)
			require.True(ok)
			assert.Equal("job-1", fin.jobID)

			if test.expErrType != "" {
				var ce *cloner.ClonerError
				require.ErrorAs(fin.err, &ce)
				assert.Equal(test.expErrType, ce.Type)
				return
			}
			require.NoError(fin.err)
			assert.Equal(test.expStage, fin.final.Status)
		})
	}
}

func TestPollSessionStop(t *testing.T) {
	client := &fakeClient{statuses: []models.CloneStatus{{Status: models.StagePending}}}
	deps := Deps{Service: client, Poller: cloner.PollerConfig{Interval: time.Hour}}.withDefaults()

	s := startPoll(context.Background(), deps, "job-1")
	first := s.next()()
	_, ok := first.(statusUpdateMsg)
	require.True(t, ok)

	s.stop()
	drain(t, s)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.calls)
}

func TestCloneForm_InvalidURLIsNotSubmitted(t *testing.T) {
	tests := map[string]string{
		"no scheme":          "not a url",
		"unsupported scheme": "ftp://x.com",
		"blank":              "   ",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			client := &fakeClient{}
			m := newCloneForm(Deps{Service: client})

			m.urlInput.SetValue(input)
			_, cmd := m.Update(key("enter"))

			assert.Nil(t, cmd)
			assert.Equal(t, stepURLInput, m.step)
			assert.EqualError(t, m.err, utils.InvalidURLMessage)
			assert.Contains(t, m.View(), utils.InvalidURLMessage)
			assert.Empty(t, client.started)
		})
	}
}

func TestCloneForm_SubmitError(t *testing.T) {
	m := newCloneForm(Deps{Service: &fakeClient{}})
	m.urlInput.SetValue("https://example.com")

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, stepSubmitting, m.step)

	// A second Enter while submitting does nothing.
	_, cmd = m.Update(key("enter"))
	assert.Nil(t, cmd)

	svcErr := &cloner.ClonerError{Type: cloner.ErrorTypeServiceUnavailable, Message: "down"}
	m.Update(submitErrorMsg{err: svcErr})

	assert.Equal(t, stepURLInput, m.step)
	assert.EqualError(t, m.err, svcErr.UserMessage())
	assert.Equal(t, "https://example.com", m.urlInput.Value())
}

func TestCloneForm_JobLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	client := &fakeClient{statuses: []models.CloneStatus{{Status: models.StagePending}}}
	m := newCloneForm(Deps{Service: client, Poller: cloner.PollerConfig{Interval: time.Hour}})
	defer m.Close()

	m.urlInput.SetValue("https://example.com")
	m.Update(key("enter"))

	job := &models.CloneJob{ID: "job-1", URL: "https://example.com", Status: models.JobStatusPending}
	_, cmd := m.Update(jobStartedMsg{job: job})
	require.NotNil(cmd)
	assert.Equal(stepPolling, m.step)
	assert.Empty(m.urlInput.Value())
	require.True(m.tracker.owns("job-1"))

	// Messages for another job are dropped.
	_, cmd = m.Update(statusUpdateMsg{jobID: "job-0", status: models.CloneStatus{Status: models.StageGenerating, Progress: 70}})
	assert.Nil(cmd)
	assert.Equal(models.StagePending, m.tracker.status.Status)
	m.Update(pollFinishedMsg{jobID: "job-0", final: &models.CloneStatus{Status: models.StageCompleted}})
	assert.Equal(stepPolling, m.step)

	_, cmd = m.Update(statusUpdateMsg{jobID: "job-1", status: models.CloneStatus{ID: "job-1", Status: models.StageScraping, Progress: 30}})
	assert.NotNil(cmd)
	assert.Equal(30, m.tracker.status.Progress)
	assert.Contains(m.View(), "Scraping")

	final := completed()
	m.Update(pollFinishedMsg{jobID: "job-1", final: &final})
	assert.Equal(stepResult, m.step)
	assert.False(m.tracker.owns("job-1"))
	assert.Contains(m.View(), "Cloned Website")

	m.Update(key("n"))
	assert.Equal(stepURLInput, m.step)
	assert.Nil(m.result)
}

func TestCloneForm_PollErrorKeepsLastStatus(t *testing.T) {
	tests := map[string]struct {
		err    error
		expErr string
		expKey string
		expCmd tea.Msg
	}{
		"api error then new clone": {
			err:    &cloner.ClonerError{Type: cloner.ErrorTypeAPI, Message: "Job not found", StatusCode: 404},
			expErr: "Job not found",
			expKey: "n",
		},
		"poll limit then menu": {
			err:    &cloner.ClonerError{Type: cloner.ErrorTypePollLimit},
			expErr: "Gave up waiting for the clone job to finish.",
			expKey: "esc",
			expCmd: MenuNavigationMsg{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := newCloneForm(Deps{Service: &fakeClient{statuses: []models.CloneStatus{{Status: models.StagePending}}}, Poller: cloner.PollerConfig{Interval: time.Hour}})
			defer m.Close()

			m.urlInput.SetValue("https://example.com")
			m.Update(key("enter"))
			m.Update(jobStartedMsg{job: &models.CloneJob{ID: "job-1", URL: "https://example.com"}})
			m.Update(statusUpdateMsg{jobID: "job-1", status: models.CloneStatus{ID: "job-1", Status: models.StageScraping, Progress: 30, Message: "scraping site"}})

			_, cmd := m.Update(pollFinishedMsg{jobID: "job-1", err: test.err})
			assert.Nil(cmd)
			assert.Equal(stepPollError, m.step)
			assert.False(m.capturingInput())
			assert.EqualError(m.err, test.expErr)
			assert.Equal(30, m.tracker.status.Progress)

			view := m.View()
			assert.Contains(view, "Scraping")
			assert.Contains(view, "scraping site")
			assert.Contains(view, test.expErr)
			assert.Contains(view, "job-1")

			// Typing does not leak into the hidden URL field.
			m.Update(key("q"))
			assert.Empty(m.urlInput.Value())

			_, cmd = m.Update(key(test.expKey))
			require.NotNil(cmd)
			if test.expCmd != nil {
				assert.Equal(test.expCmd, cmd())
				assert.Equal(stepPollError, m.step)
				return
			}
			assert.Equal(stepURLInput, m.step)
			assert.Nil(m.err)
			assert.Empty(m.urlInput.Value())
		})
	}
}

func TestCloneForm_StopFollowing(t *testing.T) {
	m := newCloneForm(Deps{Service: &fakeClient{statuses: []models.CloneStatus{{Status: models.StagePending}}}, Poller: cloner.PollerConfig{Interval: time.Hour}})
	defer m.Close()

	m.urlInput.SetValue("https://example.com")
	m.Update(key("enter"))
	m.Update(jobStartedMsg{job: &models.CloneJob{ID: "job-1", URL: "https://example.com"}})

	m.Update(key("x"))
	assert.Equal(t, stepURLInput, m.step)
	assert.False(t, m.tracker.owns("job-1"))
	assert.Contains(t, m.View(), "Stopped following job job-1")

	// A late result from the stopped session is ignored.
	final := completed()
	m.Update(pollFinishedMsg{jobID: "job-1", final: &final})
	assert.Equal(t, stepURLInput, m.step)
}

func TestResultView_Keys(t *testing.T) {
	tests := map[string]struct {
		keys      []string
		expCode   bool
		expMode   render.ViewMode
		expFull   bool
		expInView []string
	}{
		"defaults to desktop preview": {
			expMode:   render.ViewDesktop,
			expInView: []string{"Hello", "World", "Preview"},
		},
		"code view": {
			keys:      []string{"c"},
			expCode:   true,
			expMode:   render.ViewDesktop,
			expInView: []string{"<h1>Hello</h1>", "Code"},
		},
		"cycle to tablet": {
			keys:      []string{"v"},
			expMode:   render.ViewTablet,
			expInView: []string{"768×1024"},
		},
		"pick mobile": {
			keys:      []string{"3"},
			expMode:   render.ViewMobile,
			expInView: []string{"375×667"},
		},
		"picking a mode leaves code view": {
			keys:    []string{"c", "2"},
			expMode: render.ViewTablet,
		},
		"fullscreen": {
			keys:      []string{"f"},
			expMode:   render.ViewDesktop,
			expFull:   true,
			expInView: []string{"f exit fullscreen"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			v := newResultView(ResultViewConfig{}, completed(), "https://example.com")
			v.setSize(100, 40)
			for _, k := range test.keys {
				v.update(key(k))
			}

			assert.Equal(test.expCode, v.showCode)
			assert.Equal(test.expMode, v.mode)
			assert.Equal(test.expFull, v.fullscreen)
			out := v.view()
			for _, s := range test.expInView {
				assert.Contains(out, s)
			}
		})
	}
}

func TestResultView_FailedJob(t *testing.T) {
	v := newResultView(ResultViewConfig{AllowCopy: true}, models.CloneStatus{
		ID: "job-1", Status: models.StageFailed, Progress: 100, Error: "site unreachable",
	}, "")

	assert.Nil(t, v.update(key("y")))
	assert.Nil(t, v.update(key("c")))
	assert.False(t, v.showCode)
	assert.Contains(t, v.view(), "site unreachable")
}

func TestResultView_Copy(t *testing.T) {
	tests := map[string]struct {
		clipboard *fakeClipboard
		expNotice string
		expErr    bool
	}{
		"copied": {
			clipboard: &fakeClipboard{},
			expNotice: "Copied to clipboard",
		},
		"clipboard error": {
			clipboard: &fakeClipboard{err: errors.New("no display")},
			expNotice: render.CopyFailedMessage,
			expErr:    true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v := newResultView(ResultViewConfig{AllowCopy: true, Clipboard: test.clipboard}, completed(), "")

			cmd := v.update(key("y"))
			require.NotNil(t, cmd)
			v.update(cmd())

			assert.Equal(t, test.expNotice, v.notice)
			assert.Equal(t, test.expErr, v.noticeErr)
			if !test.expErr {
				assert.Equal(t, sampleHTML, test.clipboard.text)
			}
		})
	}
}

func TestResultView_DisabledActions(t *testing.T) {
	v := newResultView(ResultViewConfig{}, completed(), "")

	assert.Nil(t, v.update(key("y")))
	assert.Nil(t, v.update(key("d")))
	assert.Nil(t, v.update(key("p")))
	assert.NotContains(t, v.shortcuts(), "copy")
}

func TestResultView_Download(t *testing.T) {
	dir := t.TempDir()
	v := newResultView(ResultViewConfig{AllowDownload: true, OutputDir: dir}, completed(), "")

	cmd := v.update(key("d"))
	require.NotNil(t, cmd)
	v.update(cmd())

	path := filepath.Join(dir, render.DownloadFileName)
	assert.Equal(t, "Saved "+path, v.notice)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleHTML, string(data))
}

func TestResultView_BrowserPreview(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	srv := preview.NewServer(preview.Config{Host: "127.0.0.1", Port: 0})
	defer srv.Shutdown(context.Background())

	v := newResultView(ResultViewConfig{AllowPreview: true, Preview: srv}, completed(), "")

	cmd := v.update(key("p"))
	require.NotNil(cmd)
	v.update(cmd())
	require.False(v.noticeErr, v.notice)
	assert.Equal(1, srv.Published())
	assert.Contains(v.notice, "/preview/")

	// Opening again replaces the published page.
	v.update(v.update(key("p"))())
	assert.Equal(1, srv.Published())

	v.update(key("2"))
	assert.Contains(v.notice, "view=tablet")

	v.close()
	assert.Equal(0, srv.Published())
}

func TestRootModel_Navigation(t *testing.T) {
	assert := assert.New(t)

	root := newRootModel(Deps{Service: &fakeClient{}})

	root.Update(key("1"))
	_, ok := root.current.(*cloneForm)
	assert.True(ok)
	assert.True(root.capturingInput())
	assert.Equal(CloneFormHelpContent(), root.helpContent())

	_, cmd := root.Update(key("esc"))
	require.NotNil(t, cmd)
	root.Update(cmd())
	assert.Nil(root.current)

	root.Update(key("2"))
	_, ok = root.current.(*statusLookup)
	assert.True(ok)
	root.Update(MenuNavigationMsg{})
	assert.Nil(root.current)

	_, cmd = root.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(tea.Quit(), cmd())
}

func TestShell_Help(t *testing.T) {
	assert := assert.New(t)

	s := NewRootModel(Deps{Service: &fakeClient{}}).(*shell)

	s.Update(key("?"))
	assert.True(s.showHelp)
	assert.Contains(s.View(), "Keyboard Shortcuts")
	s.Update(key("esc"))
	assert.False(s.showHelp)

	// While typing a URL, '?' goes to the input.
	s.Update(key("1"))
	s.Update(key("?"))
	assert.False(s.showHelp)
	form := s.model.(*rootModel).current.(*cloneForm)
	assert.Equal("?", form.urlInput.Value())

	_, cmd := s.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.Equal(tea.Quit(), cmd())
	s.Close()
	assert.Nil(s.model.(*rootModel).current)
}

func TestStatusLookup(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m := newStatusLookup(Deps{Service: &fakeClient{statuses: []models.CloneStatus{{Status: models.StagePending}}}, Poller: cloner.PollerConfig{Interval: time.Hour}})
	defer m.Close()

	m.Update(key("enter"))
	assert.EqualError(m.err, "please enter a job ID")
	assert.False(m.following)

	m.idInput.SetValue(" job-7 ")
	_, cmd := m.Update(key("enter"))
	require.NotNil(cmd)
	assert.True(m.following)
	assert.Equal("job-7", m.jobID)
	assert.False(m.capturingInput())

	st := completed()
	st.ID = "job-7"
	m.Update(pollFinishedMsg{jobID: "job-7", final: &st})
	require.NotNil(m.result)
	assert.False(m.following)
	assert.Contains(m.View(), "Job job-7")
}

func TestStatusLookup_PollErrorKeepsLastStatus(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m := newStatusLookup(Deps{Service: &fakeClient{statuses: []models.CloneStatus{{Status: models.StagePending}}}, Poller: cloner.PollerConfig{Interval: time.Hour}})
	defer m.Close()

	m.idInput.SetValue("job-7")
	m.Update(key("enter"))
	m.Update(statusUpdateMsg{jobID: "job-7", status: models.CloneStatus{ID: "job-7", Status: models.StageGenerating, Progress: 70, Message: "generating page"}})

	_, cmd := m.Update(pollFinishedMsg{jobID: "job-7", err: &cloner.ClonerError{Type: cloner.ErrorTypeAPI, Message: "Job not found", StatusCode: 404}})
	assert.Nil(cmd)
	assert.True(m.pollFailed)
	assert.False(m.following)
	assert.False(m.capturingInput())
	assert.Nil(m.result)

	view := m.View()
	assert.Contains(view, "Generating")
	assert.Contains(view, "generating page")
	assert.Contains(view, "Job not found")
	assert.NotContains(view, "Job ID:")

	_, cmd = m.Update(key("esc"))
	require.NotNil(cmd)
	assert.Equal(MenuNavigationMsg{}, cmd())

	_, cmd = m.Update(key("n"))
	require.NotNil(cmd)
	assert.False(m.pollFailed)
	assert.Nil(m.err)
	assert.Empty(m.idInput.Value())
	assert.True(m.capturingInput())
	assert.Contains(m.View(), "Job ID:")
}

func TestUserFacingError(t *testing.T) {
	plain := errors.New("plain")
	assert.Equal(t, plain, userFacingError(plain))
	assert.Nil(t, userFacingError(nil))
	assert.EqualError(t, userFacingError(&cloner.ClonerError{Type: cloner.ErrorTypeCancelled}), "Cloning was cancelled.")
}
