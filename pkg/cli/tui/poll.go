package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/models"
)

// pollSession follows one job in the background and feeds its statuses to
// the program through events. Cancelling the session stops the poller before
// its next request.
type pollSession struct {
	jobID  string
	events chan tea.Msg
	cancel context.CancelFunc
}

// startPoll launches a poller for jobID. The parent ctx bounds the session;
// deps.PollTimeout, when set, adds a deadline on top of it.
func startPoll(parent context.Context, deps Deps, jobID string) *pollSession {
	base, cancel := context.WithCancel(parent)
	s := &pollSession{
		jobID:  jobID,
		events: make(chan tea.Msg, 8),
		cancel: cancel,
	}

	pollCtx, pollCancel := base, context.CancelFunc(func() {})
	if deps.PollTimeout > 0 {
		pollCtx, pollCancel = context.WithTimeout(base, deps.PollTimeout)
	}

	go func() {
		defer close(s.events)
		defer pollCancel()

		poller := cloner.NewPoller(deps.Service, deps.Poller)
		final, err := poller.Poll(pollCtx, jobID, func(st models.CloneStatus) {
			s.send(base, statusUpdateMsg{jobID: jobID, status: st})
		})
		s.send(base, pollFinishedMsg{jobID: jobID, final: final, err: err})
	}()

	return s
}

// send delivers msg unless the session has been torn down.
func (s *pollSession) send(ctx context.Context, msg tea.Msg) {
	select {
	case s.events <- msg:
	case <-ctx.Done():
	}
}

// next waits for the following event. It returns nil once the session is over.
func (s *pollSession) next() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// stop cancels the session. It is safe to call more than once.
func (s *pollSession) stop() {
	if s != nil && s.cancel != nil {
		s.cancel()
	}
}

// jobTracker holds the active poll session of a flow together with the last
// status it reported.
type jobTracker struct {
	session *pollSession
	status  models.CloneStatus
	spinner spinner.Model
}

func newJobTracker() jobTracker {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = infoStyle
	return jobTracker{spinner: s}
}

// follow replaces any running session with one for jobID.
func (t *jobTracker) follow(ctx context.Context, deps Deps, jobID string) tea.Cmd {
	t.stop()
	t.session = startPoll(ctx, deps, jobID)
	t.status = models.CloneStatus{ID: jobID, Status: models.StagePending}
	return tea.Batch(t.session.next(), t.spinner.Tick)
}

// owns reports whether a message for jobID belongs to the running session.
func (t *jobTracker) owns(jobID string) bool {
	return t.session != nil && t.session.jobID == jobID
}

func (t *jobTracker) stop() {
	t.session.stop()
	t.session = nil
}
