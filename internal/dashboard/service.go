package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/notifications"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

type API interface {
	ActiveStoreCheckins(ctx context.Context, storeID string) ([]bff.DashboardCheckin, error)
}

// Service builds the active check-in board for a staff member's store.
type Service interface {
	Snapshot(ctx context.Context, actor *session.Session) (*Snapshot, error)
}

// Snapshot is one refresh of the board. It is also the websocket message.
type Snapshot struct {
	StoreID   string    `json:"storeId"`
	Checkins  []Entry   `json:"checkins"`
	FetchedAt time.Time `json:"fetchedAt"`
}

type Entry struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	UserName    string        `json:"userName"`
	UserAvatar  string        `json:"userAvatar,omitempty"`
	CheckinTime time.Time     `json:"checkinTime"`
	Since       string        `json:"since"`
	FirstVisit  bool          `json:"firstVisit"`
	Bottles     []BottleBadge `json:"bottles"`
}

type BottleBadge struct {
	ID   string       `json:"id"`
	Type string       `json:"type"`
	Pct  int          `json:"pct"`
	Tier bottles.Tier `json:"tier"`
}

type service struct {
	api API
	now func() time.Time
}

func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bff api is required")
	}
	return &service{api: api, now: time.Now}, nil
}

func (s *service) Snapshot(ctx context.Context, actor *session.Session) (*Snapshot, error) {
	if err := session.RequireStaff(actor); err != nil {
		return nil, err
	}
	rows, err := s.api.ActiveStoreCheckins(ctx, actor.StoreID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	now := s.now()
	return Build(actor.StoreID, rows, now), nil
}

// Build keeps active check-ins only, newest arrival first.
func Build(storeID string, rows []bff.DashboardCheckin, now time.Time) *Snapshot {
	out := &Snapshot{StoreID: storeID, Checkins: []Entry{}, FetchedAt: now}
	for _, row := range rows {
		if row.Status != "" && row.Status != enums.CheckinStatusActive {
			continue
		}
		entry := Entry{
			ID:          row.ID,
			UserID:      row.UserID,
			UserName:    row.UserName,
			UserAvatar:  row.UserAvatar,
			CheckinTime: row.CheckinTime.Time,
			Since:       notifications.RelativeTime(row.CheckinTime.Time, now),
			FirstVisit:  row.PreviousCheckinDate.IsZero(),
			Bottles:     make([]BottleBadge, 0, len(row.Bottles)),
		}
		for _, b := range row.Bottles {
			pct := bottles.PctOf(b.RemainingMl, b.CapacityMl)
			entry.Bottles = append(entry.Bottles, BottleBadge{ID: b.ID, Type: b.Type, Pct: pct, Tier: bottles.TierFor(pct)})
		}
		out.Checkins = append(out.Checkins, entry)
	}
	sort.SliceStable(out.Checkins, func(i, j int) bool {
		return out.Checkins[i].CheckinTime.After(out.Checkins[j].CheckinTime)
	})
	return out
}
