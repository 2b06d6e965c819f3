package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	pkgAuth "github.com/angelmondragon/bottle-amigo/pkg/auth"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/config"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

// Service signs portal users in and out. Credentials are checked by the
// BFF; this side only keeps the returned token in a server-side session.
type Service interface {
	LoginConsumer(ctx context.Context, previous *session.Session, req ConsumerLogin) (*Result, error)
	Register(ctx context.Context, previous *session.Session, req Register) (*Result, error)
	LoginStaff(ctx context.Context, previous *session.Session, req StaffLogin) (*Result, error)
	Logout(ctx context.Context, s *session.Session) error
}

type API interface {
	LoginUser(ctx context.Context, req bff.UserLoginRequest) (*bff.UserAuth, error)
	RegisterUser(ctx context.Context, req bff.UserRegisterRequest) (*bff.UserAuth, error)
	LoginStaff(ctx context.Context, req bff.StaffLoginRequest) (*bff.StaffAuth, error)
}

type sessionManager interface {
	Create(ctx context.Context, s session.Session) (*session.Session, error)
	Revoke(ctx context.Context, portal enums.Portal, sessionID string) error
}

// navigators forgets per-session page state on logout.
type navigators interface {
	Drop(sessionID string)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	API            API
	SessionManager sessionManager
	SessionConfig  config.SessionConfig
	Navigators     navigators
	Logger         *logger.Logger
}

type service struct {
	api      API
	sessions sessionManager
	cfg      config.SessionConfig
	navs     navigators
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("bff api is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		api:      params.API,
		sessions: params.SessionManager,
		cfg:      params.SessionConfig,
		navs:     params.Navigators,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) LoginConsumer(ctx context.Context, previous *session.Session, req ConsumerLogin) (*Result, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.AuthFieldsRequired))
	}
	out, err := s.api.LoginUser(ctx, bff.UserLoginRequest{Email: email, Password: req.Password})
	if err != nil {
		return nil, loginError(err)
	}
	return s.open(ctx, previous, session.Session{
		Portal:      enums.PortalConsumer,
		Token:       out.Token,
		SubjectID:   out.User.ID,
		DisplayName: out.User.DisplayName(),
	})
}

func (s *service) Register(ctx context.Context, previous *session.Session, req Register) (*Result, error) {
	name, email := strings.TrimSpace(req.Name), strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.AuthFieldsRequired))
	}
	out, err := s.api.RegisterUser(ctx, bff.UserRegisterRequest{
		Name:     name,
		Email:    email,
		Password: req.Password,
		Nickname: strings.TrimSpace(req.Nickname),
	})
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return s.open(ctx, previous, session.Session{
		Portal:      enums.PortalConsumer,
		Token:       out.Token,
		SubjectID:   out.User.ID,
		DisplayName: out.User.DisplayName(),
	})
}

func (s *service) LoginStaff(ctx context.Context, previous *session.Session, req StaffLogin) (*Result, error) {
	storeID, pin := strings.TrimSpace(req.StoreID), strings.TrimSpace(req.PIN)
	if storeID == "" || pin == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.AuthFieldsRequired))
	}
	out, err := s.api.LoginStaff(ctx, bff.StaffLoginRequest{StoreID: storeID, PIN: pin})
	if err != nil {
		return nil, loginError(err)
	}
	if !out.Staff.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, i18n.T(i18n.AuthLoginFailed))
	}
	if out.Staff.StoreID == "" {
		out.Staff.StoreID = storeID
	}
	return s.open(ctx, previous, session.Session{
		Portal:      enums.PortalStaff,
		Token:       out.Token,
		SubjectID:   out.Staff.ID,
		DisplayName: out.Staff.Name,
		Role:        out.Staff.Role,
		StoreID:     out.Staff.StoreID,
	})
}

func (s *service) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	s.forget(sess)
	if err := s.sessions.Revoke(ctx, sess.Portal, sess.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, i18n.T(i18n.ErrorGeneric))
	}
	return nil
}

// open replaces any previous session of the same portal with a new one.
func (s *service) open(ctx context.Context, previous *session.Session, next session.Session) (*Result, error) {
	if previous != nil && previous.Portal == next.Portal {
		s.forget(previous)
		if err := s.sessions.Revoke(ctx, previous.Portal, previous.ID); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.previous_session.revoke_failed")
		}
	}

	created, err := s.sessions.Create(ctx, next)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, i18n.T(i18n.ErrorGeneric))
	}
	now := s.now()
	cookie, err := pkgAuth.MintCookieToken(s.cfg, now, pkgAuth.CookieTokenPayload{
		SessionID: created.ID,
		Portal:    created.Portal,
		SubjectID: created.SubjectID,
		Role:      created.Role,
		StoreID:   created.StoreID,
	})
	if err != nil {
		_ = s.sessions.Revoke(ctx, created.Portal, created.ID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, i18n.T(i18n.ErrorGeneric))
	}

	ctx = s.logg.WithPortal(ctx, string(created.Portal))
	ctx = s.logg.WithUserID(ctx, created.SubjectID)
	s.logg.Info(ctx, "auth.session.created")
	return &Result{Session: created, Cookie: cookie, ExpiresAt: now.Add(s.cfg.TTL)}, nil
}

func (s *service) forget(sess *session.Session) {
	if s.navs != nil {
		s.navs.Drop(sess.ID)
	}
}

func loginError(err error) error {
	var apiErr *bff.APIError
	if errors.Is(err, bff.ErrUnauthorized) || (errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError && apiErr.Status != http.StatusTooManyRequests) {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, i18n.T(i18n.AuthLoginFailed))
	}
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, i18n.T(i18n.AuthRateLimited))
	}
	return bff.Wrap(err, i18n.T(i18n.ErrorNetwork))
}
