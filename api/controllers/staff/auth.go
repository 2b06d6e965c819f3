package staff

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/auth"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const titleLogin = "スタッフログイン"

func LoginPage(pages *responses.Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages.Render(w, r, router.PageLogin, titleLogin, views.AuthForm{StoreID: r.URL.Query().Get("store")})
	}
}

// Login signs a staff member in with store id and PIN.
func Login(pages *responses.Pages, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form auth.StaffLogin
		err := validators.DecodeForm(r, &form)
		back := views.AuthForm{StoreID: strings.TrimSpace(form.StoreID)}
		if err != nil {
			pages.Render(w, r, router.PageLogin, titleLogin, back, views.Failure(responses.ToastFor(err)))
			return
		}

		result, err := svc.LoginStaff(r.Context(), session.FromContext(r.Context()), form)
		if err != nil {
			logg.Warn(logg.WithFields(r.Context(), map[string]any{"error": err.Error(), "store_id": back.StoreID}), "staff.login.failed")
			pages.Render(w, r, router.PageLogin, titleLogin, back, views.Failure(responses.ToastFor(err)))
			return
		}

		pages.SetCookie(w, result.Cookie, result.ExpiresAt)
		pages.Redirect(w, r, router.PagePath(enums.PortalStaff, router.PageDashboard))
	}
}

func Logout(pages *responses.Pages, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), session.FromContext(r.Context())); err != nil {
			logg.Error(r.Context(), "staff.logout.failed", err)
		}
		pages.ClearCookie(w)
		pages.Redirect(w, r, router.PagePath(enums.PortalStaff, router.PageLogin))
	}
}

func actor(r *http.Request) *session.Session {
	return session.FromContext(r.Context())
}
