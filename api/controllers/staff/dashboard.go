package staff

import (
	"context"
	"net/http"

	"github.com/angelmondragon/bottle-amigo/api/middleware"
	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/internal/dashboard"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/views"
	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

const (
	titleDashboard = "ダッシュボード"
	feedPath       = "/staff/dashboard/feed"
)

// Dashboard renders the first snapshot; the page then follows the live
// feed.
func Dashboard(pages *responses.Pages, svc dashboard.Service, pollSeconds int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := views.DashboardView{FeedURL: feedPath, PollSeconds: pollSeconds}
		snap, err := svc.Snapshot(r.Context(), actor(r))
		if err != nil {
			pages.LoadFailed(w, r, err, router.PageDashboard, titleDashboard, view)
			return
		}
		view.Snapshot = snap
		pages.Render(w, r, router.PageDashboard, titleDashboard, view)
	}
}

// DashboardFeed streams snapshots while the dashboard is the mounted page
// of this session. The poller dies with the page scope.
func DashboardFeed(svc dashboard.Service, feed *dashboard.Feed, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		nav := middleware.NavigatorFromContext(ctx)
		var scope *router.Scope
		if nav != nil {
			scope = nav.Current()
		}
		if scope == nil || scope.Page() != router.PageDashboard || scope.Closed() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, i18n.T(i18n.ErrorLoadFailed)))
			return
		}

		s := actor(r)
		fetch := func(ctx context.Context) (*dashboard.Snapshot, error) {
			return svc.Snapshot(ctx, s)
		}
		if err := feed.Serve(w, r, scope, fetch); err != nil {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "dashboard.feed.failed")
		}
	}
}
