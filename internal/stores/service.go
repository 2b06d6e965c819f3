package stores

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/notifications"
	"github.com/angelmondragon/bottle-amigo/internal/posts"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

type API interface {
	Home(ctx context.Context) ([]bff.HomeStore, error)
	StoreDetail(ctx context.Context, storeID string) (*bff.Store, error)
	ActiveCheckin(ctx context.Context) (*bff.ActiveCheckin, error)
}

// Service backs the consumer home and store detail pages.
type Service interface {
	Home(ctx context.Context) ([]HomeCard, error)
	Detail(ctx context.Context, storeID string) (*Detail, error)
}

// HomeCard is one store tile on the home page.
type HomeCard struct {
	bff.HomeStore
	LastVisit string
}

// Detail is the store detail page model.
type Detail struct {
	Store       bff.Store
	Posts       []Post
	Bottles     []bottles.Card
	CheckedIn   bool
	LastVisit   string
	HasLocation bool
}

type Post struct {
	bff.StorePost
	Label string
	When  string
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

func (s *service) Home(ctx context.Context) ([]HomeCard, error) {
	rows, err := s.api.Home(ctx)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	now := s.now()
	out := make([]HomeCard, 0, len(rows))
	for _, row := range rows {
		card := HomeCard{HomeStore: row}
		if !row.LastCheckinDate.IsZero() {
			card.LastVisit = notifications.RelativeTime(row.LastCheckinDate.Time, now)
		}
		out = append(out, card)
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, storeID string) (*Detail, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.CheckinStoreRequired))
	}
	store, err := s.api.StoreDetail(ctx, storeID)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorNotFound))
	}

	now := s.now()
	out := &Detail{
		Store:       *store,
		HasLocation: store.Lat != nil && store.Lng != nil,
	}
	for _, p := range store.RecentPosts {
		out.Posts = append(out.Posts, Post{StorePost: p, Label: posts.TypeLabel(p.Type), When: notifications.RelativeTime(p.CreatedAt.Time, now)})
	}
	for _, b := range store.MyBottles {
		out.Bottles = append(out.Bottles, bottles.CardOf(b))
	}
	if !store.LastCheckinDate.IsZero() {
		out.LastVisit = notifications.RelativeTime(store.LastCheckinDate.Time, now)
	}

	// The check-in badge is decoration; a failed lookup leaves it off.
	active, err := s.api.ActiveCheckin(ctx)
	if err != nil && errors.Is(err, bff.ErrUnauthorized) {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorUnauthorized))
	}
	if err == nil && active != nil && active.StoreID == storeID {
		out.CheckedIn = true
	}
	return out, nil
}

// PostTitle falls back to the type label for untitled posts.
func PostTitle(p bff.StorePost) string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	if p.Type == enums.PostTypeEvent {
		return i18n.T(i18n.LabelPostEvent)
	}
	return i18n.T(i18n.DefaultPostContent)
}
