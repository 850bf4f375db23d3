package cloner_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"web-cloner-go/pkg/cloner"
	"web-cloner-go/pkg/models"
)

type mockGetter struct {
	mock.Mock
}

func (m *mockGetter) GetStatus(ctx context.Context, jobID string) (*models.CloneStatus, error) {
	args := m.Called(ctx, jobID)
	if st, ok := args.Get(0).(*models.CloneStatus); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func status(stage models.Stage, progress int) *models.CloneStatus {
	return &models.CloneStatus{ID: "job-1", Status: stage, Progress: progress, Message: string(stage)}
}

func TestPoller_Poll(t *testing.T) {
	apiErr := errors.New("api error (500): Failed to fetch status")

	tests := map[string]struct {
		maxAttempts int
		mock        func(m *mockGetter)
		expUpdates  []models.Stage
		expFinal    *models.CloneStatus
		expErr      bool
		expErrType  cloner.ErrorType
	}{
		"walks every stage until completed": {
			mock: func(m *mockGetter) {
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StagePending, 0), nil)
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageScraping, 30), nil)
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageGenerating, 70), nil)
				completed := status(models.StageCompleted, 100)
				completed.HTML = "<html></html>"
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(completed, nil)
			},
			expUpdates: []models.Stage{models.StagePending, models.StageScraping, models.StageGenerating, models.StageCompleted},
			expFinal:   &models.CloneStatus{ID: "job-1", Status: models.StageCompleted, Progress: 100, Message: "completed", HTML: "<html></html>"},
		},
		"failed status stops after the first response": {
			mock: func(m *mockGetter) {
				failed := status(models.StageFailed, 100)
				failed.Error = "site unreachable"
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(failed, nil)
			},
			expUpdates: []models.Stage{models.StageFailed},
			expFinal:   &models.CloneStatus{ID: "job-1", Status: models.StageFailed, Progress: 100, Message: "failed", Error: "site unreachable"},
		},
		"error ends the loop without retrying": {
			mock: func(m *mockGetter) {
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageScraping, 30), nil)
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(nil, apiErr)
			},
			expUpdates: []models.Stage{models.StageScraping},
			expFinal:   status(models.StageScraping, 30),
			expErr:     true,
		},
		"unknown stages keep polling": {
			mock: func(m *mockGetter) {
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageQueued, 0), nil)
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageSaving, 80), nil)
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageCompleted, 100), nil)
			},
			expUpdates: []models.Stage{models.StageQueued, models.StageSaving, models.StageCompleted},
			expFinal:   status(models.StageCompleted, 100),
		},
		"attempt bound stops a job that never finishes": {
			maxAttempts: 3,
			mock: func(m *mockGetter) {
				m.On("GetStatus", mock.Anything, "job-1").Times(3).Return(status(models.StageGenerating, 70), nil)
			},
			expUpdates: []models.Stage{models.StageGenerating, models.StageGenerating, models.StageGenerating},
			expFinal:   status(models.StageGenerating, 70),
			expErr:     true,
			expErrType: cloner.ErrorTypePollLimit,
		},
		"progress going backwards is still delivered": {
			mock: func(m *mockGetter) {
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageGenerating, 70), nil)
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageScraping, 40), nil)
				m.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageCompleted, 100), nil)
			},
			expUpdates: []models.Stage{models.StageGenerating, models.StageScraping, models.StageCompleted},
			expFinal:   status(models.StageCompleted, 100),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			getter := &mockGetter{}
			test.mock(getter)

			p := cloner.NewPoller(getter, cloner.PollerConfig{
				Interval:    time.Millisecond,
				MaxAttempts: test.maxAttempts,
			})

			var got []models.Stage
			final, err := p.Poll(context.Background(), "job-1", func(s models.CloneStatus) {
				got = append(got, s.Status)
			})

			if test.expErr {
				require.Error(err)
				if test.expErrType != "" {
					var cerr *cloner.ClonerError
					require.True(errors.As(err, &cerr))
					assert.Equal(test.expErrType, cerr.Type)
				}
			} else {
				require.NoError(err)
			}

			assert.Equal(test.expUpdates, got)
			assert.Equal(test.expFinal, final)
			getter.AssertExpectations(t)
		})
	}
}

func TestPoller_PollCancelled(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	getter := &mockGetter{}
	getter.On("GetStatus", mock.Anything, "job-1").Once().Return(status(models.StageScraping, 30), nil)

	p := cloner.NewPoller(getter, cloner.PollerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	var (
		wg      sync.WaitGroup
		updates int
		err     error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err = p.Poll(ctx, "job-1", func(models.CloneStatus) {
			updates++
			cancel()
		})
	}()
	wg.Wait()

	var cerr *cloner.ClonerError
	require.True(errors.As(err, &cerr))
	assert.Equal(cloner.ErrorTypeCancelled, cerr.Type)
	assert.Equal(1, updates)
	getter.AssertNumberOfCalls(t, "GetStatus", 1)
}

func TestPoller_PollAlreadyCancelled(t *testing.T) {
	getter := &mockGetter{}
	p := cloner.NewPoller(getter, cloner.PollerConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	final, err := p.Poll(ctx, "job-1", nil)
	assert.Error(t, err)
	assert.Nil(t, final)
	getter.AssertNotCalled(t, "GetStatus", mock.Anything, mock.Anything)
}

func TestPoller_PollDeadline(t *testing.T) {
	getter := &mockGetter{}
	getter.On("GetStatus", mock.Anything, "job-1").Return(status(models.StageScraping, 30), nil)

	p := cloner.NewPoller(getter, cloner.PollerConfig{Interval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	final, err := p.Poll(ctx, "job-1", nil)

	var cerr *cloner.ClonerError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, cloner.ErrorTypeTimeout, cerr.Type)
	assert.Equal(t, status(models.StageScraping, 30), final)
	getter.AssertNumberOfCalls(t, "GetStatus", 1)
}
