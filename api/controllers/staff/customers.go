package staff

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/customers"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const (
	titleCustomers = "顧客"
	maxBottleMl    = 100000
)

func Customers(pages *responses.Pages, svc customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		list, err := svc.List(r.Context(), actor(r), query)
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageCustomers, titleCustomers, views.CustomersView{Query: query})
			return
		}
		pages.Render(w, r, router.PageCustomers, titleCustomers, views.CustomersView{Query: query, Customers: list})
	}
}

func CustomerDetail(pages *responses.Pages, svc customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderCustomer(w, r, pages, svc, chi.URLParam(r, "id"), nil)
	}
}

func renderCustomer(w http.ResponseWriter, r *http.Request, pages *responses.Pages, svc customers.Service, userID string, checkout *customers.Checkout, extra ...views.Toast) {
	s := actor(r)
	view := views.CustomerView{Checkout: checkout, IsMama: s != nil && s.IsMama()}
	detail, err := svc.Detail(r.Context(), s, userID)
	if err != nil {
		pages.LoadFailed(w, r, err, router.PageCustomerDetail, titleCustomers, view)
		return
	}
	view.Detail = detail
	pages.Render(w, r, router.PageCustomerDetail, detail.Name, view, extra...)
}

// StartCheckin registers a walk-in from the staff side.
func StartCheckin(pages *responses.Pages, svc customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		back := customerPath(userID)
		if _, err := svc.Checkin(r.Context(), actor(r), userID); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.CheckinSuccess)))
	}
}

// EndCheckin closes the visit and answers with the customer page in
// checkout mode so the remaining volumes can be entered right away.
func EndCheckin(pages *responses.Pages, svc customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := ""
		if err := validators.ParseForm(r); err == nil {
			userID = strings.TrimSpace(r.PostForm.Get("user_id"))
		}
		back := customerPath(userID)
		if userID == "" {
			back = router.PagePath(enums.PortalStaff, router.PageDashboard)
		}

		checkout, err := svc.EndCheckin(r.Context(), actor(r), chi.URLParam(r, "id"))
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		if userID == "" {
			pages.Redirect(w, r, back, views.Success(i18n.T(i18n.CheckoutSuccess)))
			return
		}
		renderCustomer(w, r, pages, svc, userID, checkout, views.Success(i18n.T(i18n.CheckoutSuccess)))
	}
}

// SaveRemaining stores the remaining volume of every bottle row posted.
// Rows are parallel bottle_id, capacity_ml and ml values.
func SaveRemaining(pages *responses.Pages, svc bottles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := customerPath(chi.URLParam(r, "id"))
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		updates, err := readUpdates(r)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}

		s := actor(r)
		result := svc.SaveBatch(r.Context(), s.StoreID, updates)
		if result.Err != nil {
			if responses.SessionExpired(result.Err) {
				pages.Fail(w, r, result.Err, back)
				return
			}
			logg.Warn(logg.WithFields(r.Context(), map[string]any{
				"error":     result.Err.Error(),
				"succeeded": result.Succeeded,
				"failed":    result.Failed,
			}), "bottles.batch.partial")
		}

		toasts := make([]views.Toast, 0, 2)
		for i, text := range result.Toasts() {
			if i == 0 && result.Succeeded > 0 {
				toasts = append(toasts, views.Success(text))
				continue
			}
			toasts = append(toasts, views.Failure(text))
		}
		pages.Redirect(w, r, back, toasts...)
	}
}

// readUpdates rejects the post when the row columns do not line up. A row
// whose numbers do not parse is kept with its error so it is counted as a
// failure instead of sinking the whole batch.
func readUpdates(r *http.Request) ([]bottles.Update, error) {
	ids := r.PostForm["bottle_id"]
	capacities := r.PostForm["capacity_ml"]
	mls := r.PostForm["ml"]
	if len(ids) == 0 || len(ids) != len(capacities) || len(ids) != len(mls) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}
	out := make([]bottles.Update, 0, len(ids))
	for i, id := range ids {
		u := bottles.Update{BottleID: strings.TrimSpace(id)}
		capacity, err := validators.ParseInt(capacities[i], "capacity_ml", 1, maxBottleMl)
		if err != nil {
			u.Err = err
			out = append(out, u)
			continue
		}
		ml, err := validators.ParseInt(mls[i], "ml", 0, maxBottleMl)
		if err != nil {
			u.Err = err
			out = append(out, u)
			continue
		}
		u.CapacityMl, u.Ml = capacity, ml
		out = append(out, u)
	}
	return out, nil
}

// RefillBottle tops a bottle back up to capacity. Mama only.
func RefillBottle(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := customerPath(chi.URLParam(r, "id"))
		if _, err := svc.RefillToFull(r.Context(), actor(r), chi.URLParam(r, "bottleID")); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.BottleRefilled)))
	}
}

// AddBottle registers a new kept bottle for the customer. A blank
// remaining volume means unopened.
func AddBottle(pages *responses.Pages, svc bottles.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		back := customerPath(userID)
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		capacity := 0
		if raw := strings.TrimSpace(r.PostForm.Get("capacity_ml")); raw != "" {
			v, err := validators.ParseInt(raw, "capacity_ml", 1, maxBottleMl)
			if err != nil {
				pages.Fail(w, r, err, back)
				return
			}
			capacity = v
		}
		remaining, err := validators.ParseOptionalInt(r.PostForm.Get("remaining_ml"), "remaining_ml", 0, maxBottleMl)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}

		bottleType := validators.SanitizeString(r.PostForm.Get("type"), 100)
		_, err = svc.Create(r.Context(), bottles.NewBottle{
			StoreID:     actor(r).StoreID,
			OwnerUserID: userID,
			Type:        bottleType,
			CapacityMl:  capacity,
			RemainingMl: remaining,
		})
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.BottleAdded, bottleType)))
	}
}

func AddMemo(pages *responses.Pages, svc customers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "id")
		back := customerPath(userID)
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		if _, err := svc.AddMemo(r.Context(), actor(r), userID, validators.SanitizeString(r.PostForm.Get("body"), 1000)); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.MemoAdded)))
	}
}

func customerPath(userID string) string {
	if userID == "" {
		return router.PagePath(enums.PortalStaff, router.PageCustomers)
	}
	return router.Path(enums.PortalStaff, router.PageCustomerDetail, map[string]string{"id": userID})
}
