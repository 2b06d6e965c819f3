package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu      sync.Mutex
	data    map[string]string
	expires map[string]time.Duration
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string), expires: make(map[string]time.Duration)}
}

func (m *mockStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	m.expires[key] = ttl
	return true, nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expires[key] = ttl
	return nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(portal, sessionID string) string {
	return fmt.Sprintf("ba:%s:session:%s", portal, sessionID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
		now:   func() time.Time { return time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) },
	}
}

func TestManagerCreateGetRevoke(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	created, err := manager.Create(ctx, Session{
		Portal:    enums.PortalStaff,
		Token:     "bff-token",
		SubjectID: "staff-1",
		Role:      enums.StaffRoleMama,
		StoreID:   "bar-sakura-001",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated session id")
	}
	if got := store.expires[store.SessionKey("staff", created.ID)]; got != time.Hour {
		t.Fatalf("expected ttl 1h got %v", got)
	}

	loaded, err := manager.Get(ctx, enums.PortalStaff, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Token != "bff-token" || !loaded.IsMama() || loaded.StoreID != "bar-sakura-001" {
		t.Fatalf("unexpected session %+v", loaded)
	}

	if _, err := manager.Get(ctx, enums.PortalConsumer, created.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session to be scoped to its portal, got %v", err)
	}

	if err := manager.Revoke(ctx, enums.PortalStaff, created.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err := manager.HasSession(ctx, enums.PortalStaff, created.ID)
	if err != nil {
		t.Fatalf("has session: %v", err)
	}
	if ok {
		t.Fatal("expected revoked session to be gone")
	}
}

func TestManagerCreateValidates(t *testing.T) {
	manager := newTestManager(newMockStore())
	ctx := context.Background()

	if _, err := manager.Create(ctx, Session{Portal: enums.PortalConsumer}); err == nil {
		t.Fatal("expected missing token to fail")
	}
	if _, err := manager.Create(ctx, Session{Portal: enums.PortalStaff, Token: "t"}); err == nil {
		t.Fatal("expected staff session without role to fail")
	}
	if _, err := manager.Create(ctx, Session{Portal: "admin", Token: "t"}); err == nil {
		t.Fatal("expected unknown portal to fail")
	}
}

func TestManagerTouchExtendsTTL(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)
	ctx := context.Background()

	created, err := manager.Create(ctx, Session{Portal: enums.PortalConsumer, Token: "t", SubjectID: "u1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := store.SessionKey("consumer", created.ID)
	store.expires[key] = time.Minute

	if err := manager.Touch(ctx, enums.PortalConsumer, created.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if store.expires[key] != time.Hour {
		t.Fatalf("expected ttl refreshed to 1h got %v", store.expires[key])
	}
}

func TestManagerGetEmptyID(t *testing.T) {
	manager := newTestManager(newMockStore())
	if _, err := manager.Get(context.Background(), enums.PortalConsumer, " "); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
