package session

import (
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// RequireStaff fails unless s is a staff session bound to a store.
func RequireStaff(s *Session) error {
	if s == nil || s.Portal != enums.PortalStaff || s.StoreID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, i18n.T(i18n.ErrorUnauthorized))
	}
	return nil
}

// RequireMama fails unless s is a staff session with the mama role.
func RequireMama(s *Session) error {
	if err := RequireStaff(s); err != nil {
		return err
	}
	if !s.IsMama() {
		return pkgerrors.New(pkgerrors.CodeForbidden, i18n.T(i18n.ErrorForbidden))
	}
	return nil
}
