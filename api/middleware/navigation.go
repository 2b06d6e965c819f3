package middleware

import (
	"net/http"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// Guard applies the page access rules to every request of a portal.
// Browsers are redirected; fetch calls get a JSON error.
func Guard(pages *responses.Pages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			route := router.Resolve(pages.Portal(), r.URL.Path)
			decision := router.Guard(route, s)
			if decision.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			if wantsJSON(r) {
				code := pkgerrors.CodeUnauthorized
				if s != nil && s.Portal == pages.Portal() {
					code = pkgerrors.CodeForbidden
				}
				responses.WriteError(r.Context(), nil, w, pkgerrors.New(code, ""))
				return
			}

			var toasts []views.Toast
			if s != nil && s.Portal == pages.Portal() && !router.IsPublic(route.Page) {
				toasts = append(toasts, views.Failure(i18n.T(i18n.ErrorForbidden)))
			}
			pages.Redirect(w, r, decision.Redirect, toasts...)
		})
	}
}

// Navigate attaches the session's navigator so handlers can reach the
// mounted page scope.
func Navigate(registry *router.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if s == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithNavigator(r.Context(), registry.For(s.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Mount enters page on the session's navigator, closing whatever the
// previous page left running, and exposes the fresh scope.
func Mount(page router.Page) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nav := NavigatorFromContext(r.Context())
			if nav == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithScope(r.Context(), nav.Enter(page))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMama refuses store-admin actions for bartenders.
func RequireMama(pages *responses.Pages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := session.RequireMama(session.FromContext(r.Context())); err != nil {
				if wantsJSON(r) {
					responses.WriteError(r.Context(), nil, w, err)
					return
				}
				pages.Fail(w, r, err, router.PagePath(pages.Portal(), router.PageDashboard))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
