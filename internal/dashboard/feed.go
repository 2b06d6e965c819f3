package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	ws "github.com/coder/websocket"

	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
	"github.com/angelmondragon/bottle-amigo/pkg/metrics"
)

const (
	sendBufferSize = 4
	pingInterval   = 30 * time.Second
)

type FeedParams struct {
	Interval time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.PollerMetrics
}

// Feed pushes dashboard snapshots over a websocket while the dashboard page
// is mounted.
type Feed struct {
	interval time.Duration
	logg     *logger.Logger
	metrics  *metrics.PollerMetrics
}

func NewFeed(params FeedParams) *Feed {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Feed{interval: params.Interval, logg: logg, metrics: params.Metrics}
}

// Serve upgrades the request and streams snapshots from fetch. The poller
// belongs to scope: it stops when the page is left or the socket closes,
// and snapshots that arrive after the page was left are dropped.
func (f *Feed) Serve(w http.ResponseWriter, r *http.Request, scope *router.Scope, fetch FetchFunc) error {
	conn, err := ws.Accept(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan []byte, sendBufferSize)
	poller, err := NewPoller(PollerParams{
		Fetch:    fetch,
		Interval: f.interval,
		Logger:   f.logg,
		Metrics:  f.metrics,
		Publish: func(s *Snapshot) {
			msg, err := json.Marshal(s)
			if err != nil {
				f.logg.Error(ctx, "dashboard.feed.encode_failed", err)
				return
			}
			scope.Apply(func() {
				select {
				case send <- msg:
				default:
				}
			})
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		poller.Stop()
		<-poller.Done()
	}()

	scope.OnClose(func() {
		poller.Stop()
		cancel()
	})
	poller.Start(ctx)

	go f.readPump(ctx, conn, cancel)
	f.writePump(ctx, conn, send)
	// The read side usually tore the connection down already.
	_ = conn.Close(ws.StatusNormalClosure, "")
	return nil
}

// readPump discards client messages and cancels the feed once the socket
// is gone.
func (f *Feed) readPump(ctx context.Context, conn *ws.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(ctx context.Context, conn *ws.Conn, send <-chan []byte) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-send:
			if err := conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
