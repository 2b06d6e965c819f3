package bottles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

// ConsumerAPI is the consumer half of the BFF used for bottles.
type ConsumerAPI interface {
	Bottles(ctx context.Context) ([]bff.Bottle, error)
	BottleDetail(ctx context.Context, bottleID string) (*bff.BottleDetail, error)
	CreateShare(ctx context.Context, req bff.ShareRequest) (*bff.Share, error)
	EndShare(ctx context.Context, shareID string) (*bff.Share, error)
}

// StoreAPI is the staff half of the BFF used for bottles.
type StoreAPI interface {
	UpdateRemaining(ctx context.Context, bottleID string, req bff.RemainingUpdate) (*bff.StoreBottle, error)
	RefillToFull(ctx context.Context, storeID, bottleID string) (*bff.StoreBottle, error)
	AddBottle(ctx context.Context, req bff.NewBottleRequest) (*bff.StoreBottle, error)
	CreateGift(ctx context.Context, req bff.GiftRequest) (*bff.Gift, error)
	BottleKeeps(ctx context.Context, storeID string) ([]bff.BottleKeep, error)
}

// ServiceParams groups dependencies for the bottle service. Either API may
// be nil when a portal never uses that half.
type ServiceParams struct {
	Consumer ConsumerAPI
	Store    StoreAPI
	Logger   *logger.Logger
}

// Service covers the bottle lifecycle for both portals. The server stays
// authoritative: every mutation returns what the BFF stored.
type Service interface {
	List(ctx context.Context) (*Shelf, error)
	Detail(ctx context.Context, bottleID string) (*Detail, error)
	Share(ctx context.Context, bottleID, toUserID string) (*bff.Share, error)
	EndShare(ctx context.Context, shareID string) (*bff.Share, error)

	SetRemaining(ctx context.Context, storeID, bottleID string, capacityMl, ml int) (*bff.StoreBottle, error)
	SaveBatch(ctx context.Context, storeID string, updates []Update) BatchResult
	RefillToFull(ctx context.Context, actor *session.Session, bottleID string) (*bff.StoreBottle, error)
	Create(ctx context.Context, in NewBottle) (*bff.StoreBottle, error)
	Gift(ctx context.Context, actor *session.Session, in Gift) (*GiftOutcome, error)
	Keeps(ctx context.Context, storeID string) ([]Keep, error)
}

type service struct {
	consumer ConsumerAPI
	store    StoreAPI
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Consumer == nil && params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a consumer or store api is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{consumer: params.Consumer, store: params.Store, logg: logg}, nil
}

// Shelf is the consumer bottle list: owned bottles and bottles others
// shared with the caller.
type Shelf struct {
	Own    []Card
	Shared []Card
}

// Card is a bottle with its display tier and state.
type Card struct {
	bff.Bottle
	Pct   int
	Tier  Tier
	State State
}

// Detail is the consumer bottle detail page.
type Detail struct {
	Card
	Owner       bff.Ref
	Store       bff.Ref
	ActiveShare []ShareLine
	EndedShare  []ShareLine
}

// Update is one row of a batch remaining-volume save.
type Update struct {
	BottleID   string
	CapacityMl int
	Ml         int

	// Err marks a row that could not be read. It counts as a failure and
	// is never sent.
	Err error
}

// BatchResult reports a batch save. Err aggregates every failure.
type BatchResult struct {
	Succeeded int
	Failed    int
	Bottles   []bff.StoreBottle
	Err       error
}

// Toasts returns the count messages to show, success first.
func (r BatchResult) Toasts() []string {
	var out []string
	if r.Succeeded > 0 {
		out = append(out, i18n.T(i18n.BottleBatchSaved, r.Succeeded))
	}
	if r.Failed > 0 {
		out = append(out, i18n.T(i18n.BottleBatchFailed, r.Failed))
	}
	return out
}

// NewBottle registers a kept bottle. A nil RemainingMl means unopened.
type NewBottle struct {
	StoreID     string
	OwnerUserID string
	Type        string
	CapacityMl  int
	RemainingMl *int
}

// Gift tops a bottle up by a percentage of capacity. CapacityMl and
// PreviousMl are optional and only feed ExpectedMl.
type Gift struct {
	TargetUserID string
	BottleID     string
	AddPct       int
	Reason       string
	CapacityMl   int
	PreviousMl   int
}

type GiftOutcome struct {
	Gift       *bff.Gift
	ExpectedMl int
}

// Keep is a staff bottle-keep row.
type Keep struct {
	bff.BottleKeep
	Tier        Tier
	State       State
	ActiveShare []ShareLine
	EndedShare  []ShareLine
	History     []HistoryLine
}

// CardOf decorates a consumer bottle with its display tier and state.
func CardOf(b bff.Bottle) Card {
	pct := b.RemainingPercentage
	if b.CapacityMl > 0 {
		pct = PctOf(b.RemainingMl, b.CapacityMl)
	}
	return Card{Bottle: b, Pct: pct, Tier: TierFor(pct), State: StateFor(b.RemainingMl, b.CapacityMl)}
}

func (s *service) List(ctx context.Context) (*Shelf, error) {
	if s.consumer == nil {
		return nil, errNoConsumer
	}
	bottles, err := s.consumer.Bottles(ctx)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	shelf := &Shelf{}
	for _, b := range bottles {
		if b.Shared() {
			shelf.Shared = append(shelf.Shared, CardOf(b))
			continue
		}
		shelf.Own = append(shelf.Own, CardOf(b))
	}
	return shelf, nil
}

func (s *service) Detail(ctx context.Context, bottleID string) (*Detail, error) {
	if s.consumer == nil {
		return nil, errNoConsumer
	}
	if strings.TrimSpace(bottleID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bottle id is required")
	}
	detail, err := s.consumer.BottleDetail(ctx, bottleID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorNotFound))
	}
	active, ended := PartitionShares(sharesFromDetail(detail))
	return &Detail{
		Card:        CardOf(detail.Bottle),
		Owner:       detail.Owner,
		Store:       detail.Store,
		ActiveShare: active,
		EndedShare:  ended,
	}, nil
}

func (s *service) Share(ctx context.Context, bottleID, toUserID string) (*bff.Share, error) {
	if s.consumer == nil {
		return nil, errNoConsumer
	}
	if strings.TrimSpace(bottleID) == "" || strings.TrimSpace(toUserID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}
	share, err := s.consumer.CreateShare(ctx, bff.ShareRequest{BottleID: bottleID, SharedToUserID: toUserID})
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ShareFailed))
	}
	return share, nil
}

func (s *service) EndShare(ctx context.Context, shareID string) (*bff.Share, error) {
	if s.consumer == nil {
		return nil, errNoConsumer
	}
	if strings.TrimSpace(shareID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}
	share, err := s.consumer.EndShare(ctx, shareID)
	if err != nil {
		return nil, bff.WrapServerMessage(err, i18n.T(i18n.ShareFailed))
	}
	return share, nil
}

// SetRemaining rejects out-of-range values locally. The stored bottle in
// the response is authoritative.
func (s *service) SetRemaining(ctx context.Context, storeID, bottleID string, capacityMl, ml int) (*bff.StoreBottle, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	if err := ValidateRemaining(ml, capacityMl); err != nil {
		return nil, err
	}
	if strings.TrimSpace(bottleID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bottle id is required")
	}
	updated, err := s.store.UpdateRemaining(ctx, bottleID, bff.RemainingUpdate{StoreID: storeID, RemainingMl: ml})
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.BottleUpdateFailed))
	}
	return updated, nil
}

// SaveBatch applies updates one by one and keeps going past failures. An
// expired session stops the batch at the failing row.
func (s *service) SaveBatch(ctx context.Context, storeID string, updates []Update) BatchResult {
	var result BatchResult
	for _, u := range updates {
		if u.Err != nil {
			result.Failed++
			result.Err = multierr.Append(result.Err, fmt.Errorf("bottle %s: %w", u.BottleID, u.Err))
			continue
		}
		updated, err := s.SetRemaining(ctx, storeID, u.BottleID, u.CapacityMl, u.Ml)
		if err != nil {
			result.Failed++
			result.Err = multierr.Append(result.Err, fmt.Errorf("bottle %s: %w", u.BottleID, err))
			if errors.Is(err, bff.ErrUnauthorized) {
				break
			}
			continue
		}
		result.Succeeded++
		result.Bottles = append(result.Bottles, *updated)
	}
	if result.Err != nil {
		logCtx := s.logg.WithStoreID(ctx, storeID)
		logCtx = s.logg.WithFields(logCtx, map[string]any{"succeeded": result.Succeeded, "failed": result.Failed})
		s.logg.Warn(logCtx, "bottles.batch.partial_failure")
	}
	return result
}

func (s *service) RefillToFull(ctx context.Context, actor *session.Session, bottleID string) (*bff.StoreBottle, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	bottle, err := s.store.RefillToFull(ctx, actor.StoreID, bottleID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.BottleRefillFailed))
	}
	return bottle, nil
}

func (s *service) Create(ctx context.Context, in NewBottle) (*bff.StoreBottle, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	in.Type = strings.TrimSpace(in.Type)
	if in.Type == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.BottleTypeRequired))
	}
	if in.OwnerUserID == "" || in.StoreID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}
	if in.CapacityMl <= 0 {
		in.CapacityMl = DefaultCapacityMl
	}
	remaining := in.CapacityMl
	if in.RemainingMl != nil {
		if err := ValidateRemaining(*in.RemainingMl, in.CapacityMl); err != nil {
			return nil, err
		}
		remaining = *in.RemainingMl
	}

	created, err := s.store.AddBottle(ctx, bff.NewBottleRequest{
		StoreID:     in.StoreID,
		OwnerUserID: in.OwnerUserID,
		Type:        in.Type,
		CapacityMl:  in.CapacityMl,
		RemainingMl: &remaining,
	})
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.BottleAddFailed))
	}
	return created, nil
}

func (s *service) Gift(ctx context.Context, actor *session.Session, in Gift) (*GiftOutcome, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	if err := session.RequireMama(actor); err != nil {
		return nil, err
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.GiftReasonRequired))
	}
	if in.AddPct <= 0 || in.AddPct > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.GiftPctInvalid))
	}
	if in.TargetUserID == "" || in.BottleID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.ValidationFailed))
	}

	gift, err := s.store.CreateGift(ctx, bff.GiftRequest{
		StoreID:      actor.StoreID,
		TargetUserID: in.TargetUserID,
		BottleID:     in.BottleID,
		AddPct:       in.AddPct,
		Reason:       in.Reason,
	})
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.GiftFailed))
	}
	outcome := &GiftOutcome{Gift: gift}
	if in.CapacityMl > 0 {
		outcome.ExpectedMl = GiftResultMl(in.CapacityMl, in.PreviousMl, in.AddPct)
	}
	return outcome, nil
}

func (s *service) Keeps(ctx context.Context, storeID string) ([]Keep, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	keeps, err := s.store.BottleKeeps(ctx, storeID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	out := make([]Keep, 0, len(keeps))
	for _, k := range keeps {
		active, ended := PartitionShares(sharesFromKeep(k))
		pct := k.RemainingPct
		if k.CapacityMl > 0 {
			pct = PctOf(k.RemainingMl, k.CapacityMl)
		}
		out = append(out, Keep{
			BottleKeep:  k,
			Tier:        TierFor(pct),
			State:       StateFor(k.RemainingMl, k.CapacityMl),
			ActiveShare: active,
			EndedShare:  ended,
			History:     History(k.Consumption),
		})
	}
	return out, nil
}

var (
	errNoConsumer = pkgerrors.New(pkgerrors.CodeInternal, "bottle service has no consumer api")
	errNoStore    = pkgerrors.New(pkgerrors.CodeInternal, "bottle service has no store api")
)
