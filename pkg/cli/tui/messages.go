package tui

import (
	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/preview"
)

// MenuNavigationMsg asks the root model to close the current flow and show
// the menu again.
type MenuNavigationMsg struct{}

// jobStartedMsg carries the result of submitting a URL.
type jobStartedMsg struct {
	job *models.CloneJob
}

type submitErrorMsg struct {
	err error
}

// statusUpdateMsg is one status received while polling jobID.
type statusUpdateMsg struct {
	jobID  string
	status models.CloneStatus
}

// pollFinishedMsg ends a poll session. final is nil when err is set.
type pollFinishedMsg struct {
	jobID string
	final *models.CloneStatus
	err   error
}

type copyResultMsg struct {
	err error
}

type downloadResultMsg struct {
	path string
	err  error
}

type previewOpenedMsg struct {
	handle *preview.Handle
	err    error
}
