package notifications

import (
	"fmt"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

var jst = time.FixedZone("JST", 9*60*60)

// Describe renders the localized line for a notification. Every known type
// has a case; anything else shows the server message.
func Describe(n bff.Notification) string {
	switch n.Type {
	case enums.NotificationTypeAmigoCheckin:
		return i18n.T(i18n.NotifyAmigoCheckin,
			str(n.Data, "userName", i18n.T(i18n.DefaultUserName)),
			str(n.Data, "storeName", i18n.T(i18n.DefaultStoreName)))
	case enums.NotificationTypeStorePost:
		return i18n.T(i18n.NotifyStorePost,
			str(n.Data, "storeName", i18n.T(i18n.DefaultStoreName)),
			str(n.Data, "content", i18n.T(i18n.DefaultPostContent)))
	case enums.NotificationTypeBottleShare:
		store := str(n.Data, "storeName", "")
		if store != "" {
			store += "の"
		}
		return i18n.T(i18n.NotifyBottleShare, str(n.Data, "userName", i18n.T(i18n.DefaultUserName)), store)
	case enums.NotificationTypeBottleGift:
		return i18n.T(i18n.NotifyBottleGift,
			str(n.Data, "storeName", i18n.T(i18n.DefaultStoreName)),
			str(n.Data, "reason", i18n.T(i18n.DefaultGiftReason)))
	case enums.NotificationTypeAmigoRequest:
		return i18n.T(i18n.NotifyAmigoRequest, str(n.Data, "userName", i18n.T(i18n.DefaultUserName)))
	}
	if n.Message != "" {
		return n.Message
	}
	return i18n.T(i18n.NotifyFallback)
}

// RelativeTime formats t against now: just now, minutes, hours, days, and
// a calendar date from a week on.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Minute:
		return i18n.T(i18n.TimeJustNow)
	case diff < time.Hour:
		return i18n.T(i18n.TimeMinutesAgo, int(diff/time.Minute))
	case diff < 24*time.Hour:
		return i18n.T(i18n.TimeHoursAgo, int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return i18n.T(i18n.TimeDaysAgo, int(diff/(24*time.Hour)))
	}
	return t.In(jst).Format("2006/1/2")
}

// StoreLink is the store a notification points at, when it has one.
func StoreLink(n bff.Notification) string {
	if id := str(n.Data, "store_id", ""); id != "" {
		return id
	}
	return str(n.Data, "storeId", "")
}

func str(data map[string]any, key, fallback string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if s == "" {
		return fallback
	}
	return s
}
