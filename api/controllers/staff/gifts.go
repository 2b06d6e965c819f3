package staff

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/customers"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

const titleGifts = "プレゼント"

// GiftsPage lists the store's customers and, once one is picked, their
// bottles as gift targets.
func GiftsPage(pages *responses.Pages, svc customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := actor(r)
		selected := strings.TrimSpace(r.URL.Query().Get("user"))

		list, err := svc.List(ctx, s, "")
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageGifts, titleGifts, views.NewGiftsView(nil, selected, nil))
			return
		}
		if selected == "" {
			pages.Render(w, r, router.PageGifts, titleGifts, views.NewGiftsView(list, "", nil))
			return
		}
		summary, err := svc.Summary(ctx, s, selected)
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageGifts, titleGifts, views.NewGiftsView(list, selected, nil))
			return
		}
		pages.Render(w, r, router.PageGifts, titleGifts, views.NewGiftsView(list, selected, summary))
	}
}

// Gift tops up a customer's bottle by a percentage of its capacity.
func Gift(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := router.PagePath(enums.PortalStaff, router.PageGifts)
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		userID := strings.TrimSpace(r.PostForm.Get("user_id"))
		if userID != "" {
			back += "?user=" + url.QueryEscape(userID)
		}

		in := bottles.Gift{
			TargetUserID: userID,
			BottleID:     strings.TrimSpace(r.PostForm.Get("bottle_id")),
			Reason:       validators.SanitizeString(r.PostForm.Get("reason"), 100),
		}
		var err error
		if in.AddPct, err = validators.ParseInt(r.PostForm.Get("add_pct"), "add_pct", 1, 100); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		if in.CapacityMl, err = validators.ParseInt(r.PostForm.Get("capacity_ml"), "capacity_ml", 1, maxBottleMl); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		if in.PreviousMl, err = validators.ParseInt(r.PostForm.Get("previous_ml"), "previous_ml", 0, maxBottleMl); err != nil {
			pages.Fail(w, r, err, back)
			return
		}

		if _, err := svc.Gift(r.Context(), actor(r), in); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.GiftSent)))
	}
}
