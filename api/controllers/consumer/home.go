package consumer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/internal/checkin"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/stores"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const titleHome = "ホーム"

// Home lists the caller's stores. The active check-in banner is best
// effort.
func Home(pages *responses.Pages, svc stores.Service, checkins checkin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		cards, err := svc.Home(ctx)
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageHome, titleHome, views.HomeView{})
			return
		}
		view := views.HomeView{Stores: cards}
		if active, err := checkins.Active(ctx); err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "home.active_checkin.failed")
		} else {
			view.Active = active
		}
		pages.Render(w, r, router.PageHome, titleHome, view)
	}
}

func StoreDetail(pages *responses.Pages, svc stores.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.Detail(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageStoreDetail, "", (*stores.Detail)(nil))
			return
		}
		pages.Render(w, r, router.PageStoreDetail, detail.Store.Name, detail)
	}
}
