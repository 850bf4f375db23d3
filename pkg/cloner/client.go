package cloner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/utils"
)

// CloneService talks to the remote clone service over HTTP.
type CloneService struct {
	baseURL string
	client  *http.Client
	logger  logrus.FieldLogger
}

// ServiceConfig configures a CloneService.
type ServiceConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
	Logger         logrus.FieldLogger
}

func (c *ServiceConfig) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.RequestTimeout}
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.Logger = l
	}
}

// NewCloneService creates a new clone service client.
func NewCloneService(cfg ServiceConfig) *CloneService {
	cfg.defaults()

	return &CloneService{
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
		logger:  cfg.Logger.WithField("component", "cloner"),
	}
}

// BaseURL returns the service address requests are sent to.
func (s *CloneService) BaseURL() string {
	return s.baseURL
}

// CheckHealth verifies the service is available
func (s *CloneService) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newServiceUnavailableError(fmt.Errorf("service unhealthy: status %d", resp.StatusCode))
	}

	return nil
}

// StartClone validates the URL and submits a new clone job.
// An invalid URL is rejected without any network call.
func (s *CloneService) StartClone(ctx context.Context, rawURL string) (*models.CloneJob, error) {
	target, err := utils.ValidateURL(rawURL)
	if err != nil {
		return nil, newInvalidURLError(err)
	}

	payload, err := json.Marshal(models.CloneRequest{URL: target})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/clone", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	s.logger.WithField("url", target).Debug("submitting clone job")

	body, status, err := s.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		s.logger.WithFields(logrus.Fields{"status": status, "body": truncate(string(body), 200)}).Warn("clone job rejected")
		return nil, newAPIError(status, StartFailedMessage)
	}

	var job models.CloneJob
	if err := json.Unmarshal(body, &job); err != nil {
		return nil, newInvalidResponseError("failed to decode clone job", err)
	}
	if job.ID == "" {
		return nil, newInvalidResponseError("clone job has no id", nil)
	}
	if job.URL == "" {
		job.URL = target
	}

	s.logger.WithFields(logrus.Fields{"job_id": job.ID, "status": job.Status}).Info("clone job started")
	return &job, nil
}

// GetStatus fetches the current status of a clone job.
func (s *CloneService) GetStatus(ctx context.Context, jobID string) (*models.CloneStatus, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, fmt.Errorf("job id is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/clone/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, status, err := s.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		msg := StatusFailedMessage
		var errResp models.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message() != "" {
			msg = errResp.Message()
		}
		return nil, newAPIError(status, msg)
	}

	var cs models.CloneStatus
	if err := json.Unmarshal(body, &cs); err != nil {
		return nil, newInvalidResponseError("failed to decode clone status", err)
	}

	return &cs, nil
}

// do sends the request and reads the whole body.
func (s *CloneService) do(ctx context.Context, req *http.Request) ([]byte, int, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, newInvalidResponseError("failed to read response", err)
	}

	return body, resp.StatusCode, nil
}

// classifyTransportError maps a failed round trip onto a ClonerError.
func classifyTransportError(ctx context.Context, err error) *ClonerError {
	if errors.Is(ctx.Err(), context.Canceled) {
		return newCancelledError(err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newTimeoutError(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newTimeoutError(err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return newServiceUnavailableError(err)
	}

	return newNetworkError(err)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
