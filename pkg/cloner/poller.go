package cloner

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/models"
)

// StatusGetter fetches the status of a job. CloneService satisfies it.
type StatusGetter interface {
	GetStatus(ctx context.Context, jobID string) (*models.CloneStatus, error)
}

// Poller repeatedly queries a job until it reaches a terminal stage.
type Poller struct {
	getter      StatusGetter
	interval    time.Duration
	maxAttempts int
	logger      logrus.FieldLogger
}

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Interval between a response and the next request. Defaults to 1s.
	Interval time.Duration
	// MaxAttempts bounds the number of requests. Zero means unbounded.
	MaxAttempts int
	Logger      logrus.FieldLogger
}

// NewPoller creates a poller on top of a status getter.
func NewPoller(getter StatusGetter, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if cfg.MaxAttempts < 0 {
		cfg.MaxAttempts = 0
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}

	return &Poller{
		getter:      getter,
		interval:    cfg.Interval,
		maxAttempts: cfg.MaxAttempts,
		logger:      cfg.Logger.WithField("component", "poller"),
	}
}

// Poll queries the job until it completes or fails, calling onUpdate with each
// status in the order received. The first request is unconditional. Any error
// ends the loop without retrying. Cancelling ctx stops the loop before the next
// request is sent.
//
// When the attempt bound is reached, the last status is returned together with
// a poll_limit error.
func (p *Poller) Poll(ctx context.Context, jobID string, onUpdate UpdateCallback) (*models.CloneStatus, error) {
	logger := p.logger.WithField("job_id", jobID)

	var (
		last     *models.CloneStatus
		attempts int
	)

	for {
		if ctx.Err() != nil {
			return last, contextError(ctx)
		}

		attempts++
		status, err := p.getter.GetStatus(ctx, jobID)
		if err != nil {
			logger.WithError(err).WithField("attempt", attempts).Warn("status poll failed")
			return last, err
		}

		if last != nil && status.Progress < last.Progress {
			logger.WithFields(logrus.Fields{
				"previous": last.Progress,
				"current":  status.Progress,
			}).Warn("progress went backwards")
		}
		last = status

		if onUpdate != nil {
			onUpdate(*status)
		}

		logger.WithFields(logrus.Fields{
			"attempt":  attempts,
			"stage":    status.Status,
			"progress": status.Progress,
		}).Debug("status received")

		if status.IsTerminal() {
			return status, nil
		}

		if p.maxAttempts > 0 && attempts >= p.maxAttempts {
			return last, newPollLimitError(attempts)
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last, contextError(ctx)
		case <-timer.C:
		}
	}
}

// contextError classifies a finished context: a passed deadline is a timeout,
// anything else a cancellation.
func contextError(ctx context.Context) *ClonerError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newTimeoutError(ctx.Err())
	}
	return newCancelledError(ctx.Err())
}
