package consumer

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/amigos"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

const (
	titleBottles = "ボトル"
	titleShare   = "ボトルをシェア"
)

func Bottles(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shelf, err := svc.List(r.Context())
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageBottles, titleBottles, &bottles.Shelf{})
			return
		}
		pages.Render(w, r, router.PageBottles, titleBottles, shelf)
	}
}

func BottleDetail(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.Detail(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageBottleDetail, titleBottles, views.BottleDetailView{})
			return
		}
		pages.Render(w, r, router.PageBottleDetail, detail.BottleType,
			views.NewBottleDetailView(detail, subjectID(r)))
	}
}

// SharePage lists the active amigos of the bottle's store as targets.
func SharePage(pages *responses.Pages, svc bottles.Service, amigoSvc amigos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		detail, err := svc.Detail(ctx, chi.URLParam(r, "id"))
		if err != nil {
			pages.Fail(w, r, err, router.PagePath(enums.PortalConsumer, router.PageBottles))
			return
		}
		view := views.ShareView{Bottle: detail.Card}
		groups, err := amigoSvc.List(ctx, detail.Store.ID)
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageShare, titleShare, view)
			return
		}
		view.Targets = groups.Active
		pages.Render(w, r, router.PageShare, titleShare, view)
	}
}

func Share(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bottleID := chi.URLParam(r, "id")
		detailPath := bottlePath(bottleID)
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, detailPath)
			return
		}
		if _, err := svc.Share(r.Context(), bottleID, strings.TrimSpace(r.PostForm.Get("to_user_id"))); err != nil {
			pages.Fail(w, r, err, router.Path(enums.PortalConsumer, router.PageShare, map[string]string{"id": bottleID}))
			return
		}
		pages.Redirect(w, r, detailPath, views.Success(i18n.T(i18n.ShareCreated)))
	}
}

func EndShare(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := router.PagePath(enums.PortalConsumer, router.PageBottles)
		if err := validators.ParseForm(r); err == nil {
			if id := strings.TrimSpace(r.PostForm.Get("bottle_id")); id != "" {
				back = bottlePath(id)
			}
		}
		if _, err := svc.EndShare(r.Context(), chi.URLParam(r, "id")); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.ShareEnded)))
	}
}

func bottlePath(id string) string {
	return router.Path(enums.PortalConsumer, router.PageBottleDetail, map[string]string{"id": id})
}

func subjectID(r *http.Request) string {
	if s := session.FromContext(r.Context()); s != nil {
		return s.SubjectID
	}
	return ""
}
