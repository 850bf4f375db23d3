package cloner

import (
	"time"

	"web-cloner-go/pkg/models"
)

const (
	// DefaultBaseURL is the address of the clone service when nothing is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultPollInterval is the delay between two status requests.
	DefaultPollInterval = 1000 * time.Millisecond

	// DefaultMaxAttempts bounds a poll loop (10 minutes at the default interval).
	DefaultMaxAttempts = 600

	// StartFailedMessage is the generic message for a rejected start request.
	StartFailedMessage = "Failed to start cloning job"

	// StatusFailedMessage is used when a failed status request carries no detail.
	StatusFailedMessage = "Failed to fetch status"

	// UnknownJobErrorMessage is shown for failed jobs that carry no error text.
	UnknownJobErrorMessage = "An unknown error occurred"
)

// UpdateCallback is called with every status received while polling, in order.
type UpdateCallback func(status models.CloneStatus)

// FailureMessage returns the error text of a failed status, or the generic fallback.
func FailureMessage(status models.CloneStatus) string {
	if status.Error != "" {
		return status.Error
	}
	return UnknownJobErrorMessage
}
