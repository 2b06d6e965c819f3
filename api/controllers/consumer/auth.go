package consumer

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

const (
	titleLogin    = "ログイン"
	titleRegister = "新規登録"
)

func LoginPage(pages *responses.Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages.Render(w, r, router.PageLogin, titleLogin, views.AuthForm{})
	}
}

// Login opens a consumer session and replaces any previous one held by this
// browser.
func Login(pages *responses.Pages, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form auth.ConsumerLogin
		if err := validators.DecodeForm(r, &form); err != nil {
			pages.Render(w, r, router.PageLogin, titleLogin, views.AuthForm{Email: form.Email}, views.Failure(responses.ToastFor(err)))
			return
		}

		result, err := svc.LoginConsumer(r.Context(), session.FromContext(r.Context()), form)
		if err != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "consumer.login.failed")
			pages.Render(w, r, router.PageLogin, titleLogin, views.AuthForm{Email: form.Email}, views.Failure(responses.ToastFor(err)))
			return
		}

		pages.SetCookie(w, result.Cookie, result.ExpiresAt)
		pages.Redirect(w, r, router.PagePath(enums.PortalConsumer, router.PageHome))
	}
}

func RegisterPage(pages *responses.Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages.Render(w, r, router.PageRegister, titleRegister, views.AuthForm{})
	}
}

// Register creates the account, signs it in and continues to profile setup.
func Register(pages *responses.Pages, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form auth.Register
		err := validators.DecodeForm(r, &form)
		back := views.AuthForm{
			Email:    strings.TrimSpace(form.Email),
			Name:     strings.TrimSpace(form.Name),
			Nickname: strings.TrimSpace(form.Nickname),
		}
		if err != nil {
			pages.Render(w, r, router.PageRegister, titleRegister, back, views.Failure(responses.ToastFor(err)))
			return
		}

		result, err := svc.Register(r.Context(), session.FromContext(r.Context()), form)
		if err != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "consumer.register.failed")
			pages.Render(w, r, router.PageRegister, titleRegister, back, views.Failure(responses.ToastFor(err)))
			return
		}

		pages.SetCookie(w, result.Cookie, result.ExpiresAt)
		pages.Redirect(w, r, router.PagePath(enums.PortalConsumer, router.PageProfileSetup))
	}
}

// Logout revokes the session even when the cookie is the only thing left.
func Logout(pages *responses.Pages, svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), session.FromContext(r.Context())); err != nil {
			logg.Error(r.Context(), "consumer.logout.failed", err)
		}
		pages.ClearCookie(w)
		pages.Redirect(w, r, router.PagePath(enums.PortalConsumer, router.PageLogin))
	}
}
