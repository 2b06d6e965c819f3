// Package customers backs the staff customer list and customer detail pages.
package customers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

type API interface {
	Customers(ctx context.Context, storeID string) ([]bff.Customer, error)
	CustomerDetail(ctx context.Context, storeID, userID string) (*bff.CustomerDetail, error)
	CustomerSummary(ctx context.Context, storeID, userID string) (*bff.CustomerSummary, error)
	CreateMemo(ctx context.Context, req bff.MemoRequest) (*bff.Memo, error)
	CreateStoreCheckin(ctx context.Context, req bff.StaffCheckinRequest) (*bff.StaffCheckin, error)
	EndStoreCheckin(ctx context.Context, checkinID string) (*bff.EndedCheckin, error)
}

type Service interface {
	List(ctx context.Context, actor *session.Session, query string) ([]bff.Customer, error)
	Detail(ctx context.Context, actor *session.Session, userID string) (*Detail, error)
	Summary(ctx context.Context, actor *session.Session, userID string) (*bff.CustomerSummary, error)
	AddMemo(ctx context.Context, actor *session.Session, userID, body string) (*bff.Memo, error)
	Checkin(ctx context.Context, actor *session.Session, userID string) (*bff.StaffCheckin, error)
	EndCheckin(ctx context.Context, actor *session.Session, checkinID string) (*Checkout, error)
}

// Detail is the customer detail page model.
type Detail struct {
	Customer     bff.CustomerDetail
	Name         string
	Bottles      []BottleLine
	ActiveShares []bottles.ShareLine
	EndedShares  []bottles.ShareLine
	Memos        []bff.Memo
	Checkins     []bff.CheckinRecord
	Amigos       []bff.CustomerAmigo
}

// BottleLine is a kept bottle with its display tier and history.
type BottleLine struct {
	bff.StoreBottle
	Pct     int
	Tier    bottles.Tier
	State   bottles.State
	History []bottles.HistoryLine
}

// Checkout is an ended check-in plus the remaining-volume pass the staff
// performs right after it.
type Checkout struct {
	Checkin *bff.EndedCheckin
	Updates []bottles.Update
}

type service struct {
	api  API
	logg *logger.Logger
}

func NewService(api API, logg *logger.Logger) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{api: api, logg: logg}, nil
}

// List returns the store's customers, filtered locally by name or nickname
// when query is non-blank.
func (s *service) List(ctx context.Context, actor *session.Session, query string) ([]bff.Customer, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	rows, err := s.api.Customers(ctx, actor.StoreID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	return Filter(rows, query), nil
}

func Filter(rows []bff.Customer, query string) []bff.Customer {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	out := make([]bff.Customer, 0, len(rows))
	for _, c := range rows {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Nickname), q) {
			out = append(out, c)
		}
	}
	return out
}

func (s *service) Detail(ctx context.Context, actor *session.Session, userID string) (*Detail, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	raw, err := s.api.CustomerDetail(ctx, actor.StoreID, userID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}

	out := &Detail{
		Customer: *raw,
		Name:     raw.DisplayName(),
		Checkins: raw.RecentCheckins,
		Amigos:   raw.Amigos,
	}
	for _, b := range raw.Bottles {
		out.Bottles = append(out.Bottles, bottleLine(b, raw.BottleHistories[b.ID]))
	}
	out.ActiveShares, out.EndedShares = bottles.PartitionShares(bottles.SharesFromCustomer(raw.Shares, raw.ShareHistory))

	out.Memos = append([]bff.Memo(nil), raw.Memos...)
	sort.SliceStable(out.Memos, func(i, j int) bool {
		return out.Memos[i].CreatedAt.After(out.Memos[j].CreatedAt.Time)
	})
	return out, nil
}

func bottleLine(b bff.StoreBottle, history []bff.HistoryEntry) BottleLine {
	capacity := b.CapacityMl
	if capacity <= 0 {
		capacity = bottles.DefaultCapacityMl
	}
	pct := bottles.PctOf(b.RemainingMl, capacity)
	return BottleLine{
		StoreBottle: b,
		Pct:         pct,
		Tier:        bottles.TierFor(pct),
		State:       bottles.StateFor(b.RemainingMl, capacity),
		History:     bottles.History(history),
	}
}

func (s *service) Summary(ctx context.Context, actor *session.Session, userID string) (*bff.CustomerSummary, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	out, err := s.api.CustomerSummary(ctx, actor.StoreID, userID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	return out, nil
}

func (s *service) AddMemo(ctx context.Context, actor *session.Session, userID, body string) (*bff.Memo, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.MemoRequired))
	}
	memo, err := s.api.CreateMemo(ctx, bff.MemoRequest{StoreID: actor.StoreID, UserID: userID, Body: body})
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.MemoFailed))
	}
	return memo, nil
}

// Checkin checks the customer in on their behalf.
func (s *service) Checkin(ctx context.Context, actor *session.Session, userID string) (*bff.StaffCheckin, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	checkin, err := s.api.CreateStoreCheckin(ctx, bff.StaffCheckinRequest{StoreID: actor.StoreID, UserID: userID})
	if err != nil {
		var apiErr *bff.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, i18n.T(i18n.CheckinAlreadyActive))
		}
		return nil, bff.Wrap(err, i18n.T(i18n.CheckinFailed))
	}
	ctx = s.logg.WithStoreID(ctx, actor.StoreID)
	s.logg.Info(s.logg.WithUserID(ctx, userID), "customers.checkin.created")
	return checkin, nil
}

// EndCheckin ends the check-in and prepares one remaining-volume update per
// returned bottle, prefilled with the current volume.
func (s *service) EndCheckin(ctx context.Context, actor *session.Session, checkinID string) (*Checkout, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	ended, err := s.api.EndStoreCheckin(ctx, checkinID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.CheckoutFailed))
	}
	if ended.Status == "" {
		ended.Status = enums.CheckinStatusEnded
	}
	out := &Checkout{Checkin: ended}
	for _, b := range ended.Bottles {
		out.Updates = append(out.Updates, bottles.Update{BottleID: b.ID, CapacityMl: b.CapacityMl, Ml: b.RemainingMl})
	}
	return out, nil
}
