package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/utils"
)

var (
	// ErrJobNotFound is returned for unknown job ids.
	ErrJobNotFound = errors.New("job not found")
	// ErrInvalidURL is returned when a job is requested for a bad URL.
	ErrInvalidURL = errors.New("invalid url")
)

// UnreachableSuffix marks hosts the stub pretends it cannot reach.
const UnreachableSuffix = ".invalid"

type step struct {
	stage    models.Stage
	progress int
	message  string
}

// lifecycle is the sequence every job walks through before completing.
var lifecycle = []step{
	{models.StagePending, 0, "Job queued"},
	{models.StageInitializing, 10, "Starting browser..."},
	{models.StageScraping, 30, "Scraping website..."},
	{models.StageGenerating, 70, "Generating code with LLM..."},
}

type job struct {
	url    string
	status models.CloneStatus
}

// JobService runs fake clone jobs in memory. It never touches the network.
type JobService struct {
	ctx       context.Context
	stepDelay time.Duration
	logger    logrus.FieldLogger

	mu   sync.RWMutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

// JobServiceConfig configures a JobService.
type JobServiceConfig struct {
	// StepDelay is how long each stage lasts.
	StepDelay time.Duration
	Logger    logrus.FieldLogger
}

// NewJobService creates a job service. Running jobs stop when ctx is cancelled.
func NewJobService(ctx context.Context, cfg JobServiceConfig) *JobService {
	if cfg.StepDelay < 0 {
		cfg.StepDelay = 0
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}

	return &JobService{
		ctx:       ctx,
		stepDelay: cfg.StepDelay,
		logger:    cfg.Logger.WithField("component", "jobs"),
		jobs:      map[string]*job{},
	}
}

// CreateJob validates the URL, registers a pending job and starts its runner.
func (s *JobService) CreateJob(ctx context.Context, rawURL string) (*models.CloneJob, error) {
	target, err := utils.ValidateURL(rawURL)
	if err != nil {
		return nil, ErrInvalidURL
	}

	id := uuid.NewString()
	first := lifecycle[0]

	s.mu.Lock()
	s.jobs[id] = &job{
		url: target,
		status: models.CloneStatus{
			ID:       id,
			Status:   first.stage,
			Progress: first.progress,
			Message:  first.message,
		},
	}
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{"job_id": id, "url": target}).Info("job created")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(id, target)
	}()

	return &models.CloneJob{
		ID:     id,
		URL:    target,
		Status: first.stage.JobStatus(),
	}, nil
}

// GetStatus returns a copy of the job's current status.
func (s *JobService) GetStatus(ctx context.Context, id string) (*models.CloneStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	st := j.status
	return &st, nil
}

// Wait blocks until every runner has returned.
func (s *JobService) Wait() {
	s.wg.Wait()
}

func (s *JobService) run(id, target string) {
	logger := s.logger.WithField("job_id", id)

	for _, st := range lifecycle[1:] {
		if !s.sleep() {
			logger.Debug("runner stopped")
			return
		}
		s.update(id, func(cs *models.CloneStatus) {
			cs.Status = st.stage
			cs.Progress = st.progress
			cs.Message = st.message
		})

		if st.stage == models.StageScraping && unreachable(target) {
			if !s.sleep() {
				return
			}
			s.update(id, func(cs *models.CloneStatus) {
				cs.Status = models.StageFailed
				cs.Progress = 100
				cs.Message = "Error: site unreachable"
				cs.Error = "site unreachable"
			})
			logger.Warn("job failed")
			return
		}
	}

	if !s.sleep() {
		return
	}
	s.update(id, func(cs *models.CloneStatus) {
		cs.Status = models.StageCompleted
		cs.Progress = 100
		cs.Message = "Website cloned successfully."
		cs.HTML = clonedPage(target)
	})
	logger.Info("job completed")
}

func (s *JobService) update(id string, fn func(*models.CloneStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.jobs[id]; ok {
		fn(&j.status)
	}
}

// sleep waits one step, returning false when the service is shutting down.
func (s *JobService) sleep() bool {
	if s.stepDelay == 0 {
		return s.ctx.Err() == nil
	}
	t := time.NewTimer(s.stepDelay)
	defer t.Stop()
	select {
	case <-s.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func unreachable(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return true
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), UnreachableSuffix)
}

func clonedPage(target string) string {
	src := html.EscapeString(target)
	return fmt.Sprintf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Clone of %[1]s</title>`+
		`<style>body{font-family:sans-serif;margin:0}header{background:#111832;color:#fff;padding:24px}main{padding:24px}</style></head>`+
		`<body><header><h1>Clone of %[1]s</h1></header><main><p>This page was generated from %[1]s.</p>`+
		`<ul><li>Layout</li><li>Typography</li><li>Colours</li></ul><img src="logo.png" alt="logo"/></main></body></html>`, src)
}
