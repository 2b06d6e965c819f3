package amigos

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// QRValidity is how long the server honors a generated token.
const QRValidity = 10 * time.Minute

// API is the slice of the BFF used for amigos.
type API interface {
	Amigos(ctx context.Context, storeID string) ([]bff.Amigo, error)
	SearchUsers(ctx context.Context, query string) ([]bff.UserSummary, error)
	RequestAmigo(ctx context.Context, req bff.AmigoRequest) (*bff.Amigo, error)
	AcceptAmigo(ctx context.Context, amigoID string) (*bff.Amigo, error)
	MyQR(ctx context.Context) (*bff.MyQR, error)
	ScanAmigoQR(ctx context.Context, token string) (*bff.ScanResult, error)
}

type Service interface {
	List(ctx context.Context, storeID string) (Groups, error)
	MyQR(ctx context.Context) (*QR, error)
	Scan(ctx context.Context, payload string) (*bff.ScanResult, error)
	Search(ctx context.Context, query string) ([]bff.UserSummary, error)
	Request(ctx context.Context, targetUserID, storeID string) (*bff.Amigo, error)
	Accept(ctx context.Context, amigoID string) (*bff.Amigo, error)
}

type service struct {
	api   API
	codec Codec
	now   func() time.Time
}

func NewService(api API, codec Codec) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	if codec.prefix == "" {
		codec = NewCodec(DefaultPrefix)
	}
	return &service{api: api, codec: codec, now: time.Now}, nil
}

// QR is the caller's own code. Payload is what the QR image encodes.
type QR struct {
	bff.MyQR
	Payload   string
	ExpiresAt time.Time
}

func (s *service) List(ctx context.Context, storeID string) (Groups, error) {
	list, err := s.api.Amigos(ctx, storeID)
	if err != nil {
		return Groups{}, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	return Partition(list), nil
}

// MyQR fetches a fresh token. Calling it again is the refresh.
func (s *service) MyQR(ctx context.Context) (*QR, error) {
	qr, err := s.api.MyQR(ctx)
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorLoadFailed))
	}
	if qr.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, i18n.T(i18n.ErrorLoadFailed))
	}
	return &QR{
		MyQR:      *qr,
		Payload:   s.codec.Encode(qr.Token),
		ExpiresAt: s.now().Add(QRValidity),
	}, nil
}

// Scan decodes payload locally and only then asks the server to create
// the friendship, which it accepts immediately.
func (s *service) Scan(ctx context.Context, payload string) (*bff.ScanResult, error) {
	token, err := s.codec.Decode(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, i18n.T(i18n.AmigoQRInvalid))
	}
	result, err := s.api.ScanAmigoQR(ctx, token)
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.AmigoQRInvalid))
	}
	return result, nil
}

func (s *service) Search(ctx context.Context, query string) ([]bff.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.AmigoSearchRequired))
	}
	users, err := s.api.SearchUsers(ctx, query)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	return users, nil
}

// Request creates a pending amigo owned by the caller. storeID may be
// empty; the server then uses the caller's current check-in.
func (s *service) Request(ctx context.Context, targetUserID, storeID string) (*bff.Amigo, error) {
	targetUserID = strings.TrimSpace(targetUserID)
	if targetUserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}
	amigo, err := s.api.RequestAmigo(ctx, bff.AmigoRequest{TargetUserID: targetUserID, StoreID: strings.TrimSpace(storeID)})
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return amigo, nil
}

func (s *service) Accept(ctx context.Context, amigoID string) (*bff.Amigo, error) {
	if strings.TrimSpace(amigoID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}
	amigo, err := s.api.AcceptAmigo(ctx, amigoID)
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ErrorGeneric))
	}
	return amigo, nil
}

// IsInvalidPayload reports whether err came from a malformed QR payload.
func IsInvalidPayload(err error) bool {
	return errors.Is(err, ErrInvalidPayload)
}
