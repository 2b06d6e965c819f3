package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bottle-amigo/pkg/metrics"
)

func TestPollerPublishesUntilStopped(t *testing.T) {
	var fetches, published atomic.Int32
	p, err := NewPoller(PollerParams{
		Fetch: func(ctx context.Context) (*Snapshot, error) {
			fetches.Add(1)
			return &Snapshot{}, nil
		},
		Publish:  func(*Snapshot) { published.Add(1) },
		Interval: 5 * time.Millisecond,
		Metrics:  metrics.NewPollerMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)

	p.Start(context.Background())
	require.Eventually(t, func() bool { return published.Load() >= 3 }, time.Second, time.Millisecond)

	p.Stop()
	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("poller did not exit after Stop")
	}
	after := fetches.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, fetches.Load())
}

func TestPollerSkipsPublishOnFailure(t *testing.T) {
	var published atomic.Int32
	var calls atomic.Int32
	p, err := NewPoller(PollerParams{
		Fetch: func(ctx context.Context) (*Snapshot, error) {
			calls.Add(1)
			return nil, errors.New("bff down")
		},
		Publish:  func(*Snapshot) { published.Add(1) },
		Interval: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	p.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	p.Stop()
	<-p.Done()
	assert.Zero(t, published.Load())
}

func TestPollerStoppedBeforeStartNeverRuns(t *testing.T) {
	var calls atomic.Int32
	p, err := NewPoller(PollerParams{
		Fetch: func(ctx context.Context) (*Snapshot, error) {
			calls.Add(1)
			return &Snapshot{}, nil
		},
		Publish: func(*Snapshot) {},
	})
	require.NoError(t, err)

	p.Stop()
	p.Start(context.Background())
	<-p.Done()
	assert.Zero(t, calls.Load())
}

func TestNewPollerValidates(t *testing.T) {
	_, err := NewPoller(PollerParams{Publish: func(*Snapshot) {}})
	assert.Error(t, err)
	_, err = NewPoller(PollerParams{Fetch: func(ctx context.Context) (*Snapshot, error) { return nil, nil }})
	assert.Error(t, err)
}
