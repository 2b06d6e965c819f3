package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

type API interface {
	Profile(ctx context.Context) (*bff.User, error)
	UpdateProfile(ctx context.Context, req bff.ProfileUpdate) (*bff.User, error)
	UserProfile(ctx context.Context, userID string) (*bff.PublicProfile, error)
}

// Service backs the profile, profile-setup and user-profile pages.
type Service interface {
	Get(ctx context.Context) (*bff.User, error)
	Save(ctx context.Context, in Input) (*bff.User, error)
	User(ctx context.Context, userID string) (*bff.PublicProfile, error)
}

// Input is the profile form. Zero values mean "leave unset" except where
// noted; the birthday is only sent when both month and day are chosen.
type Input struct {
	Nickname       string
	AvatarBase64   string
	BirthdayMonth  int
	BirthdayDay    int
	BirthdayPublic bool
	Bio            string
	// Notify is nil on the setup page, which has no notification toggles.
	Notify *bff.NotificationSettings
}

type service struct {
	api API
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	return &service{api: api}, nil
}

func (s *service) Get(ctx context.Context) (*bff.User, error) {
	user, err := s.api.Profile(ctx)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	return user, nil
}

func (s *service) Save(ctx context.Context, in Input) (*bff.User, error) {
	req, err := in.Update()
	if err != nil {
		return nil, err
	}
	user, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ProfileFailed))
	}
	return user, nil
}

func (s *service) User(ctx context.Context, userID string) (*bff.PublicProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ErrorNotFound))
	}
	out, err := s.api.UserProfile(ctx, userID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorNotFound))
	}
	return out, nil
}

// Update converts the form into the BFF request.
func (in Input) Update() (bff.ProfileUpdate, error) {
	var req bff.ProfileUpdate

	nickname := strings.TrimSpace(in.Nickname)
	req.Nickname = &nickname
	bio := strings.TrimSpace(in.Bio)
	req.Bio = &bio

	if in.AvatarBase64 != "" {
		if !strings.HasPrefix(in.AvatarBase64, "data:image/") {
			return bff.ProfileUpdate{}, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
		}
		avatar := in.AvatarBase64
		req.AvatarBase64 = &avatar
	}

	if in.BirthdayMonth != 0 && in.BirthdayDay != 0 {
		if !validBirthday(in.BirthdayMonth, in.BirthdayDay) {
			return bff.ProfileUpdate{}, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed)).
				WithDetails(map[string]int{"month": in.BirthdayMonth, "day": in.BirthdayDay})
		}
		month, day := in.BirthdayMonth, in.BirthdayDay
		public := bff.Flag(in.BirthdayPublic)
		req.BirthdayMonth = &month
		req.BirthdayDay = &day
		req.BirthdayPublic = &public
	}

	if in.Notify != nil {
		settings := *in.Notify
		req.NotificationSettings = &settings
	}
	return req, nil
}

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func validBirthday(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= daysInMonth[month]
}

// Birthday renders "3月15日", or "" when unknown.
func Birthday(month, day *int) string {
	if month == nil || day == nil || *month == 0 || *day == 0 {
		return ""
	}
	return fmt.Sprintf("%d月%d日", *month, *day)
}
