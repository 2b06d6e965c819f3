package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/auth"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/config"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

type stubRedis struct {
	pingErr error
}

func (s stubRedis) Ping(context.Context) error {
	return s.pingErr
}

func (stubRedis) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return true, 1, nil
}

type stubSessions struct {
	sessions map[string]*session.Session
}

func (s stubSessions) Get(_ context.Context, portal enums.Portal, id string) (*session.Session, error) {
	found, ok := s.sessions[id]
	if !ok || found.Portal != portal {
		return nil, session.ErrSessionNotFound
	}
	return found, nil
}

func (stubSessions) Touch(context.Context, enums.Portal, string) error {
	return nil
}

type pageRenderer struct{}

func (pageRenderer) Render(w io.Writer, doc views.Document) error {
	_, err := io.WriteString(w, string(doc.Portal)+":"+string(doc.Page))
	return err
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		Session: config.SessionConfig{
			Secret:         "portal-secret-for-tests",
			Issuer:         "bottle-amigo-portal",
			TTL:            time.Hour,
			ConsumerCookie: "ba_consumer",
			StaffCookie:    "ba_staff",
		},
		Dashboard: config.DashboardConfig{PollInterval: 30 * time.Second},
		RateLimit: config.RateLimitConfig{LoginWindow: time.Minute, LoginIPLimit: 20, LoginAccountLimit: 10},
	}
}

func newTestRouter(sessions map[string]*session.Session) http.Handler {
	cfg := testConfig()
	pagesFor := func(portal enums.Portal, cookie string) *responses.Pages {
		return responses.NewPages(responses.PagesParams{Portal: portal, Renderer: pageRenderer{}, Cookie: cookie})
	}
	return NewRouter(Params{
		Config:        cfg,
		Logger:        logger.Nop(),
		Redis:         stubRedis{},
		Sessions:      stubSessions{sessions: sessions},
		Registry:      router.NewRegistry(),
		Gatherer:      prometheus.NewRegistry(),
		ConsumerPages: pagesFor(enums.PortalConsumer, cfg.Session.ConsumerCookie),
		StaffPages:    pagesFor(enums.PortalStaff, cfg.Session.StaffCookie),
	})
}

func cookieFor(t *testing.T, s *session.Session) *http.Cookie {
	t.Helper()
	cfg := testConfig()
	token, err := auth.MintCookieToken(cfg.Session, time.Now(), auth.CookieTokenPayload{
		SessionID: s.ID,
		Portal:    s.Portal,
		SubjectID: s.SubjectID,
		Role:      s.Role,
		StoreID:   s.StoreID,
	})
	require.NoError(t, err)
	name := cfg.Session.ConsumerCookie
	if s.Portal == enums.PortalStaff {
		name = cfg.Session.StaffCookie
	}
	return &http.Cookie{Name: name, Value: token}
}

func TestHealthLive(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", w.Header().Get("X-BottleAmigo-Env"))
}

func TestMetricsEndpoint(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnonymousRedirects(t *testing.T) {
	h := newTestRouter(nil)
	tests := []struct {
		path string
		code int
		want string
	}{
		{path: "/", code: http.StatusFound, want: "/home"},
		{path: "/home", code: http.StatusSeeOther, want: "/login"},
		{path: "/bottles/b1", code: http.StatusSeeOther, want: "/login"},
		{path: "/staff", code: http.StatusFound, want: "/staff/dashboard"},
		{path: "/staff/dashboard", code: http.StatusSeeOther, want: "/staff/login"},
		{path: "/staff/master/staff", code: http.StatusSeeOther, want: "/staff/login"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.want, w.Header().Get("Location"))
		})
	}
}

func TestUnknownPathsFallBackToDefaultPage(t *testing.T) {
	consumer := &session.Session{ID: "c1", Portal: enums.PortalConsumer, SubjectID: "user-1"}
	mama := &session.Session{ID: "s1", Portal: enums.PortalStaff, SubjectID: "staff-1", Role: enums.StaffRoleMama, StoreID: "store-1"}
	h := newTestRouter(map[string]*session.Session{"c1": consumer, "s1": mama})

	tests := []struct {
		name   string
		path   string
		as     *session.Session
		code   int
		target string
	}{
		{name: "consumer session", path: "/no-such-page", as: consumer, code: http.StatusFound, target: "/home"},
		{name: "mama session", path: "/staff/no-such-page", as: mama, code: http.StatusFound, target: "/staff/dashboard"},
		{name: "nested unknown", path: "/bottles/b1/extra", as: consumer, code: http.StatusFound, target: "/home"},
		{name: "anonymous consumer", path: "/no-such-page", code: http.StatusSeeOther, target: "/login"},
		{name: "anonymous staff", path: "/staff/no-such-page", code: http.StatusSeeOther, target: "/staff/login"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.as != nil {
				req.AddCookie(cookieFor(t, tc.as))
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.target, w.Header().Get("Location"))
		})
	}
}

func TestLoginPagesRender(t *testing.T) {
	h := newTestRouter(nil)
	for path, want := range map[string]string{
		"/login":       "consumer:login",
		"/register":    "consumer:register",
		"/staff/login": "staff:login",
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, want, w.Body.String())
	}
}

func TestPortalsKeepSeparateSessions(t *testing.T) {
	consumer := &session.Session{ID: "c1", Portal: enums.PortalConsumer, SubjectID: "user-1"}
	h := newTestRouter(map[string]*session.Session{"c1": consumer})

	req := httptest.NewRequest(http.MethodGet, "/staff/dashboard", nil)
	req.AddCookie(cookieFor(t, consumer))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "/staff/login", w.Header().Get("Location"))
}

func TestBartenderCannotPostStoreAdmin(t *testing.T) {
	bartender := &session.Session{ID: "s1", Portal: enums.PortalStaff, SubjectID: "staff-1", Role: enums.StaffRoleBartender, StoreID: "store-1"}
	h := newTestRouter(map[string]*session.Session{"s1": bartender})

	req := httptest.NewRequest(http.MethodPost, "/staff/master/settings", strings.NewReader("address=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookieFor(t, bartender))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/staff/dashboard", w.Header().Get("Location"))
}

func TestScannerNeedsMountedPage(t *testing.T) {
	consumer := &session.Session{ID: "c1", Portal: enums.PortalConsumer, SubjectID: "user-1"}
	h := newTestRouter(map[string]*session.Session{"c1": consumer})

	req := httptest.NewRequest(http.MethodPost, "/checkin/scanner", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookieFor(t, consumer))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
