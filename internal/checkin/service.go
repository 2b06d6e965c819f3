package checkin

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

// API is the slice of the BFF the check-in flow needs.
type API interface {
	StoreDetail(ctx context.Context, storeID string) (*bff.Store, error)
	Amigos(ctx context.Context, storeID string) ([]bff.Amigo, error)
	CreateCheckin(ctx context.Context, req bff.CheckinRequest) (*bff.Checkin, error)
	ActiveCheckin(ctx context.Context) (*bff.ActiveCheckin, error)
}

// Service coordinates store resolution, notify-target selection and the
// check-in submission for both the check-in page and the home dialog.
type Service interface {
	Resolve(ctx context.Context, rawInput string) (*Resolution, error)
	Submit(ctx context.Context, storeID string, notifyUserIDs []string) (*Result, error)
	Active(ctx context.Context) (*bff.ActiveCheckin, error)
}

type service struct {
	api  API
	logg *logger.Logger
}

// NewService builds the check-in service.
func NewService(api API, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: api, logg: logg}, nil
}

// Resolve turns a typed store id or a scanned store QR payload into the
// store record plus its notify candidates. A missing store is reported and
// the caller resets to input; the amigo lookup never fails the flow.
func (s *service) Resolve(ctx context.Context, rawInput string) (*Resolution, error) {
	storeID := ParseStoreInput(rawInput)
	if storeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.CheckinStoreRequired))
	}

	store, err := s.api.StoreDetail(ctx, storeID)
	if err != nil {
		if errors.Is(err, bff.ErrUnauthorized) {
			return nil, bff.Wrap(err, i18n.T(i18n.ErrorUnauthorized))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, i18n.T(i18n.CheckinStoreNotFound, storeID))
	}

	amigos, err := s.api.Amigos(ctx, storeID)
	if err != nil {
		s.logg.Warn(s.logg.WithStoreID(ctx, storeID), "checkin.amigos.lookup_failed")
		amigos = nil
	}

	selection := NewSelection(amigos)
	selection.MarkCheckedIn(store.Amigos)
	return &Resolution{Store: *store, Selection: selection}, nil
}

// Submit is the single check-in contract. notifyUserIDs may be empty.
// Failures are not retried.
func (s *service) Submit(ctx context.Context, storeID string, notifyUserIDs []string) (*Result, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.CheckinStoreRequired))
	}
	notify := dedupe(notifyUserIDs)

	created, err := s.api.CreateCheckin(ctx, bff.CheckinRequest{StoreID: storeID, NotifyToUserIDs: notify})
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.CheckinFailed))
	}
	logCtx := s.logg.WithStoreID(ctx, storeID)
	s.logg.Info(s.logg.WithField(logCtx, "notified", len(notify)), "checkin.created")
	return &Result{
		Checkin:  created,
		StoreID:  storeID,
		Notified: len(notify),
		Message:  SuccessMessage(len(notify)),
	}, nil
}

// Active returns the caller's open check-in, or nil when there is none.
func (s *service) Active(ctx context.Context) (*bff.ActiveCheckin, error) {
	active, err := s.api.ActiveCheckin(ctx)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	if active != nil && active.StoreID == "" {
		return nil, nil
	}
	return active, nil
}

// SuccessMessage is the toast shown after a check-in.
func SuccessMessage(notified int) string {
	if notified > 0 {
		return i18n.T(i18n.CheckinSuccessNotified, notified)
	}
	return i18n.T(i18n.CheckinSuccess)
}

// ParseStoreInput extracts the store id from manual entry or a store QR.
// Store QR codes carry the bare id.
func ParseStoreInput(raw string) string {
	return strings.TrimSpace(raw)
}

// CheckedInAt reports whether active is an open check-in at storeID.
func CheckedInAt(active *bff.ActiveCheckin, storeID string) bool {
	return active != nil && storeID != "" && active.StoreID == storeID
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func isActive(a bff.Amigo) bool {
	return a.Status == "" || a.Status == enums.AmigoStatusActive
}
