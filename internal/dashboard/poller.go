package dashboard

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
	"github.com/angelmondragon/bottle-amigo/pkg/metrics"
)

const DefaultInterval = 30 * time.Second

// FetchFunc loads one snapshot.
type FetchFunc func(ctx context.Context) (*Snapshot, error)

type PollerParams struct {
	Fetch    FetchFunc
	Publish  func(*Snapshot)
	Interval time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.PollerMetrics
}

// Poller refreshes the board on a fixed cadence until stopped. It polls
// once immediately on Start.
type Poller struct {
	fetch    FetchFunc
	publish  func(*Snapshot)
	interval time.Duration
	logg     *logger.Logger
	metrics  *metrics.PollerMetrics

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPoller(params PollerParams) (*Poller, error) {
	if params.Fetch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fetch is required")
	}
	if params.Publish == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "publish is required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Poller{
		fetch:    params.Fetch,
		publish:  params.Publish,
		interval: interval,
		logg:     logg,
		metrics:  params.Metrics,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the loop. A stopped poller never starts.
func (p *Poller) Start(parent context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	if p.stopped {
		close(p.done)
		return
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	go p.run(ctx)
}

// Stop ends the loop. Safe to call more than once and before Start.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done is closed once a started poller has fully exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	p.metrics.FeedStarted()
	defer p.metrics.FeedStopped()

	p.poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snapshot, err := p.fetch(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.metrics.IncPoll(false)
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "dashboard.poll.failed")
		return
	}
	p.metrics.IncPoll(true)
	p.publish(snapshot)
}
