package consumer

import (
	"net/http"

	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/internal/notifications"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
)

const titleNotifications = "お知らせ"

// Notifications renders the feed. Fetching marks it read server-side.
func Notifications(pages *responses.Pages, svc notifications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feed, err := svc.Feed(r.Context())
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageNotifications, titleNotifications, views.NotificationsView{})
			return
		}
		pages.Render(w, r, router.PageNotifications, titleNotifications, views.NewNotificationsView(feed))
	}
}
