package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bottle-amigo/internal/router"
)

type feedHarness struct {
	nav     *router.Navigator
	fetches atomic.Int32
	served  chan struct{}
	url     string
}

func newFeedHarness(t *testing.T) *feedHarness {
	t.Helper()
	h := &feedHarness{nav: router.NewNavigator(), served: make(chan struct{})}
	feed := NewFeed(FeedParams{Interval: 5 * time.Millisecond})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(h.served)
		scope := h.nav.Enter(router.PageDashboard)
		_ = feed.Serve(w, r, scope, func(ctx context.Context) (*Snapshot, error) {
			n := h.fetches.Add(1)
			return &Snapshot{StoreID: "bar-sakura-001", Checkins: []Entry{{ID: string(rune('a' + n%26))}}}, nil
		})
	}))
	t.Cleanup(srv.Close)
	h.url = "ws" + strings.TrimPrefix(srv.URL, "http")
	return h
}

func (h *feedHarness) waitServed(t *testing.T) {
	t.Helper()
	select {
	case <-h.served:
	case <-time.After(2 * time.Second):
		t.Fatal("feed handler did not return")
	}
}

func TestFeedStreamsSnapshots(t *testing.T) {
	h := newFeedHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, h.url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	for i := 0; i < 2; i++ {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)
		var snap Snapshot
		require.NoError(t, json.Unmarshal(data, &snap))
		assert.Equal(t, "bar-sakura-001", snap.StoreID)
		assert.Len(t, snap.Checkins, 1)
	}
}

func TestFeedStopsWhenSocketCloses(t *testing.T) {
	h := newFeedHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, h.url, nil)
	require.NoError(t, err)
	_, _, err = conn.Read(ctx)
	require.NoError(t, err)
	conn.CloseNow()

	h.waitServed(t)
	after := h.fetches.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, h.fetches.Load())
}

func TestFeedStopsOnNavigation(t *testing.T) {
	h := newFeedHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, _, err := ws.Dial(ctx, h.url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()
	_, _, err = conn.Read(ctx)
	require.NoError(t, err)

	h.nav.Enter(router.PageCustomers)
	h.waitServed(t)

	after := h.fetches.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, h.fetches.Load())
}
