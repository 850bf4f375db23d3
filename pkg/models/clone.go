package models

import (
	json "github.com/goccy/go-json"
)

// JobStatus is the coarse lifecycle state reported when a clone job is created.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Stage is the fine-grained state reported by the status endpoint.
type Stage string

const (
	StagePending      Stage = "pending"
	StageInitializing Stage = "initializing"
	StageScraping     Stage = "scraping"
	StageGenerating   Stage = "generating"
	StageCompleted    Stage = "completed"
	StageFailed       Stage = "failed"

	// Emitted by the service but not part of the documented set.
	StageQueued Stage = "queued"
	StageSaving Stage = "saving"
)

// IsTerminal reports whether no further polling should happen after this stage.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

// JobStatus maps a fine-grained stage onto the coarse job lifecycle.
// Unknown stages count as processing.
func (s Stage) JobStatus() JobStatus {
	switch s {
	case StagePending, StageQueued:
		return JobStatusPending
	case StageCompleted:
		return JobStatusCompleted
	case StageFailed:
		return JobStatusFailed
	default:
		return JobStatusProcessing
	}
}

// CloneRequest is the body of a start-job request.
type CloneRequest struct {
	URL string `json:"url" binding:"required"`
}

// CloneJob is returned when a clone job is created.
type CloneJob struct {
	ID     string    `json:"id"`
	URL    string    `json:"url"`
	Status JobStatus `json:"status"`
}

// UnmarshalJSON accepts either "id" or "job_id" for the job identifier. A
// status reported as a stage name (such as "queued") is mapped onto JobStatus.
func (j *CloneJob) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     string    `json:"id"`
		JobID  string    `json:"job_id"`
		URL    string    `json:"url"`
		Status JobStatus `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	j.ID = raw.ID
	if j.ID == "" {
		j.ID = raw.JobID
	}
	j.URL = raw.URL
	j.Status = raw.Status
	if j.Status != "" {
		j.Status = Stage(j.Status).JobStatus()
	}
	return nil
}

// CloneStatus is a single poll response.
type CloneStatus struct {
	ID       string `json:"id"`
	Status   Stage  `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message"`
	HTML     string `json:"html,omitempty"`
	Error    string `json:"error,omitempty"`
}

// IsTerminal reports whether the job has finished, successfully or not.
func (s CloneStatus) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// ErrorResponse is the optional error body returned by the clone service.
type ErrorResponse struct {
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Message returns whichever error field is populated.
func (e ErrorResponse) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}
