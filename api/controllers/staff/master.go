package staff

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/masters"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/settings"
	accounts "github.com/angelmondragon/bottle-amigo/internal/staff"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const titleMaster = "マスタ管理"

// MasterServices groups what the master page needs per tab.
type MasterServices struct {
	Masters  masters.Service
	Staff    accounts.Service
	Settings settings.Service
}

// Master renders one tab of the store admin page.
func Master(pages *responses.Pages, svc MasterServices, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		s := actor(r)
		view := views.NewMasterView(chi.URLParam(r, "tab"))

		var err error
		switch view.Tab {
		case views.TabStaff:
			view.Accounts, err = svc.Staff.List(ctx, s)
		case views.TabSettings:
			view.Settings, err = svc.Settings.Get(ctx, s)
			if err == nil {
				qr, qrErr := views.QRDataURL(s.StoreID)
				if qrErr != nil {
					logg.Warn(logg.WithField(ctx, "error", qrErr.Error()), "master.store_qr.failed")
				}
				view.StoreQR = qr
			}
		default:
			view.Masters, err = svc.Masters.List(ctx, s)
		}
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageMaster, titleMaster, view)
			return
		}
		pages.Render(w, r, router.PageMaster, titleMaster, view)
	}
}

// SaveMaster creates a bottle master, or updates one when the path carries
// an id.
func SaveMaster(pages *responses.Pages, svc masters.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := masterPath(views.TabBottles)
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		capacity, err := validators.ParseInt(r.PostForm.Get("capacity_ml"), "capacity_ml", 1, maxBottleMl)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		image, err := validators.ImageDataURL(r, "image")
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}

		in := masters.Input{
			Name:        validators.SanitizeString(r.PostForm.Get("name"), 100),
			Brand:       validators.SanitizeString(r.PostForm.Get("brand"), 100),
			Variety:     validators.SanitizeString(r.PostForm.Get("variety"), 100),
			CapacityMl:  capacity,
			ImageBase64: image,
		}
		if _, err := svc.Save(r.Context(), actor(r), chi.URLParam(r, "id"), in); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.MasterSaved)))
	}
}

func DeleteMaster(pages *responses.Pages, svc masters.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := masterPath(views.TabBottles)
		if err := svc.Delete(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.MasterDeleted)))
	}
}

func CreateStaff(pages *responses.Pages, svc accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := masterPath(views.TabStaff)
		in, err := readStaff(r)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		if _, err := svc.Create(r.Context(), actor(r), in); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.StaffCreated)))
	}
}

// UpdateStaff saves name and role. A blank PIN keeps the current one.
func UpdateStaff(pages *responses.Pages, svc accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := masterPath(views.TabStaff)
		in, err := readStaff(r)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		if err := svc.Update(r.Context(), actor(r), chi.URLParam(r, "id"), in); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.StaffUpdated)))
	}
}

func ToggleStaff(pages *responses.Pages, svc accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := masterPath(views.TabStaff)
		ref, err := readRef(r)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		_, message, err := svc.Toggle(r.Context(), actor(r), ref)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(message))
	}
}

func DeleteStaff(pages *responses.Pages, svc accounts.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := masterPath(views.TabStaff)
		ref, err := readRef(r)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		message, err := svc.Delete(r.Context(), actor(r), ref)
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(message))
	}
}

// SaveSettings updates the store address and, when a file was chosen, the
// logo.
func SaveSettings(pages *responses.Pages, svc settings.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := masterPath(views.TabSettings)
		if err := validators.ParseForm(r); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		logo, err := validators.ImageDataURL(r, "logo")
		if err != nil {
			pages.Fail(w, r, err, back)
			return
		}

		var in settings.Input
		if _, ok := r.PostForm["address"]; ok {
			address := validators.SanitizeString(r.PostForm.Get("address"), 200)
			in.Address = &address
		}
		if logo != "" {
			in.LogoBase64 = &logo
		}
		if _, err := svc.Save(r.Context(), actor(r), in); err != nil {
			pages.Fail(w, r, err, back)
			return
		}
		pages.Redirect(w, r, back, views.Success(i18n.T(i18n.SettingsSaved)))
	}
}

func readStaff(r *http.Request) (accounts.Input, error) {
	if err := validators.ParseForm(r); err != nil {
		return accounts.Input{}, err
	}
	return accounts.Input{
		Name: validators.SanitizeString(r.PostForm.Get("name"), 50),
		Role: enums.StaffRole(strings.TrimSpace(r.PostForm.Get("role"))),
		PIN:  strings.TrimSpace(r.PostForm.Get("pin")),
	}, nil
}

func readRef(r *http.Request) (accounts.Ref, error) {
	if err := validators.ParseForm(r); err != nil {
		return accounts.Ref{}, err
	}
	return accounts.Ref{ID: chi.URLParam(r, "id"), Name: strings.TrimSpace(r.PostForm.Get("name"))}, nil
}

func masterPath(tab string) string {
	return router.Path(enums.PortalStaff, router.PageMaster, map[string]string{"tab": tab})
}
