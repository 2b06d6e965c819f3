package consumer

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bottle-amigo/api/controllers"
	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/amigos"
	"github.com/angelmondragon/bottle-amigo/internal/checkin"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const titleAmigos = "Amigo"

// AmigosPage renders the amigo groups, the caller's QR and optional search
// results. The store defaults to the active check-in's store; without one
// the page asks the user to check in. QR and search failures only cost
// their own section.
func AmigosPage(pages *responses.Pages, svc amigos.Service, checkins checkin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()
		storeID := strings.TrimSpace(query.Get("store"))
		storeName := ""
		if storeID == "" {
			active, err := checkins.Active(ctx)
			if err != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "amigos.active_checkin.failed")
			}
			if active != nil {
				storeID, storeName = active.StoreID, active.StoreName
			}
		}
		if storeID == "" {
			pages.Render(w, r, router.PageAmigos, titleAmigos, views.AmigosView{CheckinRequired: true})
			return
		}

		groups, err := svc.List(ctx, storeID)
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageAmigos, titleAmigos, views.NewAmigosView(storeID, amigos.Groups{}))
			return
		}
		view := views.NewAmigosView(storeID, groups)
		view.StoreName = storeName
		var toasts []views.Toast

		if qr, err := svc.MyQR(ctx); err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "amigos.qr.failed")
		} else if card, err := views.NewQRCard(qr); err != nil {
			logg.Error(ctx, "amigos.qr.render_failed", err)
		} else {
			view.QR = card
		}

		if q, ok := query["q"]; ok {
			view.Query = strings.TrimSpace(strings.Join(q, " "))
			results, err := svc.Search(ctx, view.Query)
			if err != nil {
				toasts = append(toasts, views.Failure(responses.ToastFor(err)))
			}
			view.Results = results
		}

		pages.Render(w, r, router.PageAmigos, titleAmigos, view, toasts...)
	}
}

// RefreshQR issues a new amigo code; the page renders the fresh one.
func RefreshQR(pages *responses.Pages, svc amigos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := amigosPath(storeField(r))
		if _, err := svc.MyQR(r.Context()); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.AmigoQRRefreshed)))
	}
}

func RequestAmigo(pages *responses.Pages, svc amigos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := storeField(r)
		back := amigosPath(storeID)
		target := strings.TrimSpace(r.PostForm.Get("target_user_id"))
		if _, err := svc.Request(r.Context(), target, storeID); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.AmigoRequested)))
	}
}

func AcceptAmigo(pages *responses.Pages, svc amigos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := router.PagePath(enums.PortalConsumer, router.PageAmigos)
		if _, err := svc.Accept(r.Context(), chi.URLParam(r, "id")); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.AmigoAccepted)))
	}
}

// AmigoScan sends a scanned amigo QR to the BFF and reloads the list.
func AmigoScan(svc amigos.Service) controllers.ScanFunc {
	return func(ctx context.Context, payload string) (controllers.ScanOutcome, error) {
		result, err := svc.Scan(ctx, payload)
		if err != nil {
			return controllers.ScanOutcome{}, err
		}
		return controllers.ScanOutcome{
			Redirect: router.PagePath(enums.PortalConsumer, router.PageAmigos),
			Flash:    []views.Toast{views.Success(i18n.T(i18n.AmigoScanned, result.Name))},
		}, nil
	}
}

func storeField(r *http.Request) string {
	if err := validators.ParseForm(r); err != nil {
		return ""
	}
	return strings.TrimSpace(r.PostForm.Get("store_id"))
}

func amigosPath(storeID string) string {
	path := router.PagePath(enums.PortalConsumer, router.PageAmigos)
	if storeID == "" {
		return path
	}
	return path + "?store=" + url.QueryEscape(storeID)
}
