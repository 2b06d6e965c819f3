package consumer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/validators"
	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/profile"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

const (
	titleProfile      = "プロフィール"
	titleProfileSetup = "プロフィール設定"
)

type profileForm struct {
	Nickname           string `form:"nickname" validate:"max=30"`
	Bio                string `form:"bio" validate:"max=200"`
	BirthdayMonth      string `form:"birthday_month"`
	BirthdayDay        string `form:"birthday_day"`
	BirthdayPublic     bool   `form:"birthday_public"`
	AmigoCheckinNotify bool   `form:"amigo_checkin_notify"`
	StorePostNotify    bool   `form:"store_post_notify"`
}

// readProfile turns the multipart profile form into a service input. The
// setup page has no notification toggles.
func readProfile(r *http.Request, setup bool) (profile.Input, error) {
	var form profileForm
	if err := validators.DecodeForm(r, &form); err != nil {
		return profile.Input{}, err
	}
	month, err := validators.ParseOptionalInt(form.BirthdayMonth, "birthday_month", 1, 12)
	if err != nil {
		return profile.Input{}, err
	}
	day, err := validators.ParseOptionalInt(form.BirthdayDay, "birthday_day", 1, 31)
	if err != nil {
		return profile.Input{}, err
	}
	avatar, err := validators.ImageDataURL(r, "avatar")
	if err != nil {
		return profile.Input{}, err
	}

	in := profile.Input{
		Nickname:       validators.SanitizeString(form.Nickname, 30),
		Bio:            validators.SanitizeString(form.Bio, 200),
		AvatarBase64:   avatar,
		BirthdayPublic: form.BirthdayPublic,
	}
	if month != nil && day != nil {
		in.BirthdayMonth, in.BirthdayDay = *month, *day
	}
	if !setup {
		in.Notify = &bff.NotificationSettings{
			AmigoCheckinNotify: bff.Flag(form.AmigoCheckinNotify),
			StorePostNotify:    bff.Flag(form.StorePostNotify),
		}
	}
	return in, nil
}

func ProfileSetupPage(pages *responses.Pages, svc profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context())
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageProfileSetup, titleProfileSetup, views.NewProfileView(nil, true))
			return
		}
		pages.Render(w, r, router.PageProfileSetup, titleProfileSetup, views.NewProfileView(user, true))
	}
}

// ProfileSetup saves the first profile and lands on home.
func ProfileSetup(pages *responses.Pages, svc profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setupPath := router.PagePath(enums.PortalConsumer, router.PageProfileSetup)
		in, err := readProfile(r, true)
		if err != nil {
			pages.Fail(w, r, err, setupPath)
			return
		}
		if _, err := svc.Save(r.Context(), in); err != nil {
			pages.Fail(w, r, err, setupPath)
			return
		}
		pages.Redirect(w, r, router.PagePath(enums.PortalConsumer, router.PageHome), views.Success(i18n.T(i18n.ProfileSaved)))
	}
}

func ProfilePage(pages *responses.Pages, svc profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context())
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageProfile, titleProfile, views.NewProfileView(nil, false))
			return
		}
		pages.Render(w, r, router.PageProfile, titleProfile, views.NewProfileView(user, false))
	}
}

func ProfileSave(pages *responses.Pages, svc profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profilePath := router.PagePath(enums.PortalConsumer, router.PageProfile)
		in, err := readProfile(r, false)
		if err != nil {
			pages.Fail(w, r, err, profilePath)
			return
		}
		if _, err := svc.Save(r.Context(), in); err != nil {
			pages.Fail(w, r, err, profilePath)
			return
		}
		pages.Redirect(w, r, profilePath, views.Success(i18n.T(i18n.ProfileSaved)))
	}
}

// UserProfile shows another user's public profile.
func UserProfile(pages *responses.Pages, svc profile.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.User(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageUserProfile, "", views.UserProfileView{})
			return
		}
		pages.Render(w, r, router.PageUserProfile, p.Name, views.NewUserProfileView(p))
	}
}
