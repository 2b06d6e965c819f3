package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bottle-amigo/pkg/config"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	redisclient "github.com/angelmondragon/bottle-amigo/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session id already in use")
)

// Session is the server-side half of a portal login. Token is the BFF bearer
// token and is never written to the browser.
type Session struct {
	ID          string          `json:"id"`
	Portal      enums.Portal    `json:"portal"`
	Token       string          `json:"token"`
	SubjectID   string          `json:"subjectId"`
	DisplayName string          `json:"displayName,omitempty"`
	Role        enums.StaffRole `json:"role,omitempty"`
	StoreID     string          `json:"storeId,omitempty"`
	StoreName   string          `json:"storeName,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// IsMama reports whether the session belongs to a store manager.
func (s Session) IsMama() bool {
	return s.Portal == enums.PortalStaff && s.Role.IsMama()
}

type sessionStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(portal, sessionID string) string
}

// Manager stores portal sessions in Redis keyed by portal and session id.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
	now   func() time.Time
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Get(ctx context.Context, portal enums.Portal, sessionID string) (*Session, error)
	HasSession(ctx context.Context, portal enums.Portal, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
		now:   time.Now,
	}, nil
}

// TTL returns how long a session lives without activity.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create persists a new session under a fresh id and returns it.
func (m *Manager) Create(ctx context.Context, s Session) (*Session, error) {
	if !s.Portal.IsValid() {
		return nil, fmt.Errorf("invalid portal %q", s.Portal)
	}
	if strings.TrimSpace(s.Token) == "" {
		return nil, fmt.Errorf("bff token is required")
	}
	if s.Portal == enums.PortalStaff && !s.Role.IsValid() {
		return nil, fmt.Errorf("invalid staff role %q", s.Role)
	}

	s.ID = NewSessionID()
	s.CreatedAt = m.now().UTC()
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	ok, err := m.store.SetNX(ctx, m.keyer.SessionKey(string(s.Portal), s.ID), string(payload), m.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionExists
	}
	return &s, nil
}

// Get loads a session; ErrSessionNotFound when it expired or was revoked.
func (m *Manager) Get(ctx context.Context, portal enums.Portal, sessionID string) (*Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(string(portal), sessionID))
	if err != nil {
		return nil, wrapNotFound(err)
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if s.Portal != portal {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Touch slides the session expiry forward.
func (m *Manager) Touch(ctx context.Context, portal enums.Portal, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Expire(ctx, m.keyer.SessionKey(string(portal), sessionID), m.ttl)
}

// Revoke deletes the session. Revoking an unknown id is not an error.
func (m *Manager) Revoke(ctx context.Context, portal enums.Portal, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(string(portal), sessionID))
}

// HasSession reports whether the session id is still live.
func (m *Manager) HasSession(ctx context.Context, portal enums.Portal, sessionID string) (bool, error) {
	if _, err := m.Get(ctx, portal, sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewSessionID produces the identifier used as the cookie jti and Redis key.
func NewSessionID() string {
	return uuid.NewString()
}

func wrapNotFound(err error) error {
	if errors.Is(err, redislib.Nil) {
		return ErrSessionNotFound
	}
	return err
}
