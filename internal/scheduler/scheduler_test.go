package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/crawler"
	"github.com/thep200/github-trending/internal/publisher"
	"github.com/thep200/github-trending/pkg/log"
)

type fakeCrawler struct {
	calls int
	err   error
}

func (f *fakeCrawler) Crawl(_ context.Context) (*crawler.Report, error) {
	f.calls++
	return &crawler.Report{RunID: "run-1", Pages: 3, Records: 10, Files: []string{"a.csv"}}, f.err
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context) publisher.Result {
	return m.Called(ctx).Get(0).(publisher.Result)
}

func newTestScheduler(t *testing.T, c crawler.Crawler, p Publisher, clock time.Time) *Scheduler {
	t.Helper()
	config, err := (&cfg.MockLoader{}).Load()
	require.NoError(t, err)
	logger, err := log.NewCslLoggerTo(io.Discard, false)
	require.NoError(t, err)

	s := NewScheduler(logger, config, c, p)
	s.now = func() time.Time { return clock }
	return s
}

func at(hour, min, sec int) time.Time {
	return time.Date(2024, 3, 15, hour, min, sec, 0, time.UTC)
}

func TestStep_IdleOutsideWindow(t *testing.T) {
	c := &fakeCrawler{}
	s := newTestScheduler(t, c, nil, at(10, 5, 0))

	assert.Equal(t, time.Second, s.Step(context.Background(), at(10, 5, 0)))
	assert.Equal(t, time.Second, s.Step(context.Background(), at(10, 1, 0)))
	assert.Equal(t, 0, c.calls)
}

func TestStep_CrawlAndPublishOnThirdHour(t *testing.T) {
	c := &fakeCrawler{}
	p := new(mockPublisher)
	p.On("Publish", mock.Anything).Return(publisher.Result{Files: 2, Committed: true, Pushed: true}).Once()
	s := newTestScheduler(t, c, p, at(12, 0, 40))

	wait := s.Step(context.Background(), at(12, 0, 30))

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, 59*time.Minute+20*time.Second, wait)
	p.AssertExpectations(t)

	snap := s.Stats.Snapshot()
	assert.Equal(t, 1, snap.Crawls)
	assert.Equal(t, "run-1", snap.LastRunID)
	assert.Equal(t, "published 2 archive files", snap.LastPublish)
	assert.Equal(t, at(13, 0, 0), snap.NextRun)
}

func TestStep_NoPublishOffCadence(t *testing.T) {
	c := &fakeCrawler{}
	p := new(mockPublisher)
	s := newTestScheduler(t, c, p, at(13, 0, 10))

	s.Step(context.Background(), at(13, 0, 5))
	s.Step(context.Background(), at(14, 0, 5))

	assert.Equal(t, 2, c.calls)
	p.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestStep_OncePerBoundary(t *testing.T) {
	c := &fakeCrawler{}
	s := newTestScheduler(t, c, nil, at(13, 0, 10))

	s.Step(context.Background(), at(13, 0, 1))
	wait := s.Step(context.Background(), at(13, 0, 20))

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, time.Second, wait)
}

func TestStep_CrawlErrorStillPublishes(t *testing.T) {
	c := &fakeCrawler{err: errors.New("disk full")}
	p := new(mockPublisher)
	p.On("Publish", mock.Anything).Return(publisher.Result{Stage: publisher.StagePush, Err: errors.New("rejected")}).Once()
	s := newTestScheduler(t, c, p, at(15, 0, 30))

	s.Step(context.Background(), at(15, 0, 0))

	p.AssertExpectations(t)
	snap := s.Stats.Snapshot()
	assert.Equal(t, "disk full", snap.LastError)
	assert.Equal(t, "publish failed at push: rejected", snap.LastPublish)
}

func TestStep_OverrunSkipsMissedBoundary(t *testing.T) {
	c := &fakeCrawler{}
	s := newTestScheduler(t, c, nil, at(14, 10, 0))

	wait := s.Step(context.Background(), at(13, 0, 0))
	assert.Equal(t, 50*time.Minute, wait)
}

func TestShouldPublish(t *testing.T) {
	s := newTestScheduler(t, &fakeCrawler{}, new(mockPublisher), at(0, 0, 0))
	for hour := 0; hour < 24; hour++ {
		assert.Equal(t, hour%3 == 0, s.shouldPublish(at(hour, 0, 0)), "hour %d", hour)
	}

	s.PublishEvery = 0
	assert.False(t, s.shouldPublish(at(0, 0, 0)))
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := &fakeCrawler{}
	s := newTestScheduler(t, c, nil, at(9, 30, 0))

	ctx, cancel := context.WithCancel(context.Background())
	sleeps := 0
	s.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		assert.Equal(t, time.Second, d)
		if sleeps == 3 {
			cancel()
		}
		return ctx.Err()
	}

	require.NoError(t, s.Run(ctx))
	assert.Equal(t, 3, sleeps)
	assert.Equal(t, 0, c.calls)
}

func TestSleepCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))
}
