package responses

import (
	"errors"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// ToastFor picks the message a user sees for err. Internal failures never
// leak their text.
func ToastFor(err error) string {
	if err == nil {
		return ""
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		if errors.Is(err, bff.ErrUnauthorized) {
			return i18n.T(i18n.ErrorUnauthorized)
		}
		return i18n.T(i18n.ErrorGeneric)
	}

	msg := typed.Message()
	switch typed.Code() {
	case pkgerrors.CodeInternal:
		return i18n.T(i18n.ErrorGeneric)
	case pkgerrors.CodeDependency:
		if msg == "" {
			return i18n.T(i18n.ErrorNetwork)
		}
	case pkgerrors.CodeUnauthorized:
		if msg == "" {
			return i18n.T(i18n.ErrorUnauthorized)
		}
	case pkgerrors.CodeForbidden:
		if msg == "" {
			return i18n.T(i18n.ErrorForbidden)
		}
	case pkgerrors.CodeNotFound:
		if msg == "" {
			return i18n.T(i18n.ErrorNotFound)
		}
	}
	if msg == "" {
		return i18n.T(i18n.ErrorGeneric)
	}
	return msg
}

// SessionExpired reports whether err means the portal session is gone and
// the user must sign in again.
func SessionExpired(err error) bool {
	return errors.Is(err, bff.ErrUnauthorized)
}
