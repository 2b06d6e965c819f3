package responses

import (
	"io"
	"net/http"

	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

// Renderer executes a page document.
type Renderer interface {
	Render(w io.Writer, doc views.Document) error
}

type PagesParams struct {
	Portal   enums.Portal
	Renderer Renderer
	Cookie   string
	Secure   bool
	Logger   *logger.Logger
}

// Pages renders HTML pages and post/redirect/get flows for one portal.
type Pages struct {
	portal   enums.Portal
	renderer Renderer
	cookie   string
	secure   bool
	logg     *logger.Logger
}

func NewPages(params PagesParams) *Pages {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Pages{
		portal:   params.Portal,
		renderer: params.Renderer,
		cookie:   params.Cookie,
		secure:   params.Secure,
		logg:     logg,
	}
}

func (p *Pages) Portal() enums.Portal {
	return p.portal
}

// Render writes page with any pending flash toasts plus extra.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, page router.Page, title string, data any, extra ...views.Toast) {
	p.RenderStatus(w, r, http.StatusOK, page, title, data, extra...)
}

func (p *Pages) RenderStatus(w http.ResponseWriter, r *http.Request, status int, page router.Page, title string, data any, extra ...views.Toast) {
	s := session.FromContext(r.Context())
	if s != nil && s.Portal != p.portal {
		s = nil
	}
	toasts := append(views.TakeFlash(w, r), extra...)
	doc := views.Document{
		Layout: views.Layout{
			Title:   title,
			Portal:  p.portal,
			Page:    page,
			Session: s,
			Toasts:  toasts,
			Nav:     views.NavFor(p.portal, s, page),
		},
		Data: data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := p.renderer.Render(w, doc); err != nil {
		p.logg.Error(r.Context(), "page.render.failed", err)
	}
}

// Redirect finishes a POST with a 303 and flashes toasts onto the next page.
func (p *Pages) Redirect(w http.ResponseWriter, r *http.Request, to string, toasts ...views.Toast) {
	views.SetFlash(w, toasts...)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// Fail sends a failed action back to fallback with the error toast, or to
// the login page when the session expired.
func (p *Pages) Fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if p.expired(w, r, err) {
		return
	}
	p.Redirect(w, r, fallback, views.Failure(ToastFor(err)))
}

// LoadFailed renders page with empty data and the error toast after a
// failed read.
func (p *Pages) LoadFailed(w http.ResponseWriter, r *http.Request, err error, page router.Page, title string, empty any) {
	if p.expired(w, r, err) {
		return
	}
	p.logg.Warn(p.logg.WithField(r.Context(), "error", err.Error()), "page.load.failed")
	p.Render(w, r, page, title, empty, views.Failure(ToastFor(err)))
}

func (p *Pages) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !SessionExpired(err) {
		return false
	}
	p.ClearCookie(w)
	p.Redirect(w, r, router.PagePath(p.portal, router.PageLogin), views.Failure(ToastFor(err)))
	return true
}
