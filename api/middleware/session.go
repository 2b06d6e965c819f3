package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/auth"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/config"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

// SessionStore loads and refreshes portal sessions.
type SessionStore interface {
	Get(ctx context.Context, portal enums.Portal, sessionID string) (*session.Session, error)
	Touch(ctx context.Context, portal enums.Portal, sessionID string) error
}

// NavigatorDropper forgets the page state of a session that no longer exists.
type NavigatorDropper interface {
	Drop(sessionID string)
}

type SessionParams struct {
	Portal     enums.Portal
	Config     config.SessionConfig
	Store      SessionStore
	Navigators NavigatorDropper
	Logger     *logger.Logger
}

// CookieName is the session cookie used by portal.
func CookieName(cfg config.SessionConfig, portal enums.Portal) string {
	if portal == enums.PortalStaff {
		return cfg.StaffCookie
	}
	return cfg.ConsumerCookie
}

// Session resolves the portal cookie into a live session and puts it, its
// BFF token and its log fields on the request context. A missing, forged or
// revoked cookie leaves the request anonymous for the guard to handle.
func Session(params SessionParams) func(http.Handler) http.Handler {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	cookieName := CookieName(params.Config, params.Portal)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logg.WithPortal(r.Context(), params.Portal.String())

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			claims, err := auth.ParseCookieToken(params.Config, params.Portal.String(), cookie.Value)
			if err != nil {
				logg.Debug(logg.WithField(ctx, "error", err.Error()), "session.cookie.invalid")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			s, err := params.Store.Get(ctx, params.Portal, claims.ID)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrSessionNotFound):
					if params.Navigators != nil {
						params.Navigators.Drop(claims.ID)
					}
				default:
					logg.Error(ctx, "session.load.failed", err)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if err := params.Store.Touch(ctx, params.Portal, s.ID); err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "session.touch.failed")
			}

			ctx = logg.WithUserID(ctx, s.SubjectID)
			if s.Role != "" {
				ctx = logg.WithActorRole(ctx, s.Role.String())
			}
			if s.StoreID != "" {
				ctx = logg.WithStoreID(ctx, s.StoreID)
			}
			ctx = session.WithContext(ctx, s)
			ctx = bff.WithToken(ctx, s.Token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
