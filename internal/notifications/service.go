package notifications

import (
	"context"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// API fetches the feed. The server marks everything read on fetch.
type API interface {
	Notifications(ctx context.Context) ([]bff.Notification, error)
}

// Service defines the notification feed operations.
type Service interface {
	Feed(ctx context.Context) (*Feed, error)
}

type service struct {
	api API
	now func() time.Time
}

// Item is one rendered feed entry.
type Item struct {
	bff.Notification
	Text    string
	When    string
	StoreID string
	Unread  bool
}

// Feed is the notification page.
type Feed struct {
	Items       []Item
	UnreadCount int
}

// NewService wires notification dependencies.
func NewService(api API) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications api required")
	}
	return &service{api: api, now: time.Now}, nil
}

func (s *service) Feed(ctx context.Context) (*Feed, error) {
	rows, err := s.api.Notifications(ctx)
	if err != nil {
		return nil, bff.Wrap(err, i18n.T(i18n.ErrorLoadFailed))
	}
	now := s.now()
	feed := &Feed{Items: make([]Item, 0, len(rows))}
	for _, n := range rows {
		item := Item{
			Notification: n,
			Text:         Describe(n),
			When:         RelativeTime(n.CreatedAt.Time, now),
			StoreID:      StoreLink(n),
			Unread:       n.Unread(),
		}
		if item.Unread {
			feed.UnreadCount++
		}
		feed.Items = append(feed.Items, item)
	}
	return feed, nil
}

// UnreadCount counts entries without a read timestamp.
func UnreadCount(rows []bff.Notification) int {
	count := 0
	for _, n := range rows {
		if n.Unread() {
			count++
		}
	}
	return count
}
