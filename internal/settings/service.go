package settings

import (
	"context"
	"strings"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

type API interface {
	StoreSettings(ctx context.Context, storeID string) (*bff.StoreSettings, error)
	UpdateStoreSettings(ctx context.Context, req bff.SettingsUpdate) (*bff.StoreSettings, error)
}

type Service interface {
	Get(ctx context.Context, actor *session.Session) (*bff.StoreSettings, error)
	Save(ctx context.Context, actor *session.Session, in Input) (*bff.StoreSettings, error)
}

// Input carries the editable fields. A nil field is left unchanged.
type Input struct {
	Address    *string
	LogoBase64 *string
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

func (s *service) Get(ctx context.Context, actor *session.Session) (*bff.StoreSettings, error) {
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	out, err := s.api.StoreSettings(ctx, actor.StoreID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	return out, nil
}

func (s *service) Save(ctx context.Context, actor *session.Session, in Input) (*bff.StoreSettings, error) {
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	req := bff.SettingsUpdate{StoreID: actor.StoreID, LogoBase64: in.LogoBase64}
	if in.Address != nil {
		address := strings.TrimSpace(*in.Address)
		req.Address = &address
	}
	if in.LogoBase64 != nil && *in.LogoBase64 != "" && !strings.HasPrefix(*in.LogoBase64, "data:image/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}
	out, err := s.api.UpdateStoreSettings(ctx, req)
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return out, nil
}
