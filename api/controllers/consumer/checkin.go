package consumer

import (
	"context"
	"net/http"
	"net/url"

	"github.com/angelmondragon/bottle-amigo/api/controllers"
	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/checkin"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const titleCheckin = "チェックイン"

// CheckinPage shows the store input, or the notify picker once ?store=
// names a store. A failed lookup falls back to the input step.
func CheckinPage(pages *responses.Pages, svc checkin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		input := r.URL.Query().Get("store")

		active, err := svc.Active(ctx)
		if err != nil {
			if responses.SessionExpired(err) {
				pages.LoadFailed(w, r, err, router.PageCheckin, titleCheckin, views.NewCheckinView(input, nil, nil))
				return
			}
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "checkin.active.failed")
		}

		if checkin.ParseStoreInput(input) == "" {
			pages.Render(w, r, router.PageCheckin, titleCheckin, views.NewCheckinView(input, nil, active))
			return
		}

		res, err := svc.Resolve(ctx, input)
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageCheckin, titleCheckin, views.NewCheckinView(input, nil, active))
			return
		}
		pages.Render(w, r, router.PageCheckin, titleCheckin, views.NewCheckinView(input, res, active))
	}
}

// Checkin submits a check-in from the check-in page or the home quick
// dialog. notify_all picks every amigo the check-in page would preselect.
func Checkin(pages *responses.Pages, svc checkin.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		home := router.PagePath(enums.PortalConsumer, router.PageHome)
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, home)
			return
		}
		storeID := checkin.ParseStoreInput(r.PostForm.Get("store_id"))
		quick := r.PostForm.Get("notify_all") == "1"

		fallback := checkinPath(storeID)
		notify := r.PostForm["notify"]
		if quick {
			fallback = home
			res, err := svc.Resolve(ctx, storeID)
			if err != nil {
				pages.Fail(w, r, err, fallback)
				return
			}
			notify = res.Selection.SelectedIDs()
		}

		result, err := svc.Submit(ctx, storeID, notify)
		if err != nil {
			pages.Fail(w, r, err, fallback)
			return
		}
		pages.Redirect(w, r,
			router.Path(enums.PortalConsumer, router.PageStoreDetail, map[string]string{"id": result.StoreID}),
			views.Success(result.Message))
	}
}

// CheckinScan turns a scanned store QR into the notify step.
func CheckinScan() controllers.ScanFunc {
	return func(_ context.Context, payload string) (controllers.ScanOutcome, error) {
		storeID := checkin.ParseStoreInput(payload)
		if storeID == "" {
			return controllers.ScanOutcome{}, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.CheckinStoreRequired))
		}
		return controllers.ScanOutcome{Redirect: checkinPath(storeID)}, nil
	}
}

func checkinPath(storeID string) string {
	path := router.PagePath(enums.PortalConsumer, router.PageCheckin)
	if storeID == "" {
		return path
	}
	return path + "?store=" + url.QueryEscape(storeID)
}
