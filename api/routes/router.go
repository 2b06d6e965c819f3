package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bottle-amigo/api/controllers"
	consumercontrollers "github.com/angelmondragon/bottle-amigo/api/controllers/consumer"
	staffcontrollers "github.com/angelmondragon/bottle-amigo/api/controllers/staff"
	"github.com/angelmondragon/bottle-amigo/api/middleware"
	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/internal/amigos"
	"github.com/angelmondragon/bottle-amigo/internal/auth"
	"github.com/angelmondragon/bottle-amigo/internal/bottles"
	"github.com/angelmondragon/bottle-amigo/internal/checkin"
	"github.com/angelmondragon/bottle-amigo/internal/customers"
	"github.com/angelmondragon/bottle-amigo/internal/dashboard"
	"github.com/angelmondragon/bottle-amigo/internal/masters"
	"github.com/angelmondragon/bottle-amigo/internal/notifications"
	"github.com/angelmondragon/bottle-amigo/internal/posts"
	"github.com/angelmondragon/bottle-amigo/internal/profile"
	"github.com/angelmondragon/bottle-amigo/internal/router"
	"github.com/angelmondragon/bottle-amigo/internal/settings"
	"github.com/angelmondragon/bottle-amigo/internal/staff"
	"github.com/angelmondragon/bottle-amigo/internal/stores"
	"github.com/angelmondragon/bottle-amigo/pkg/config"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
)

type rateLimiter interface {
	controllers.Pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Params carries everything the two portals are built from.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Redis    rateLimiter
	Sessions middleware.SessionStore
	Registry *router.Registry
	Gatherer prometheus.Gatherer
	Loading  controllers.LoadIndicator

	ConsumerPages *responses.Pages
	StaffPages    *responses.Pages

	Auth          auth.Service
	Profile       profile.Service
	Stores        stores.Service
	Checkins      checkin.Service
	Bottles       bottles.Service
	Amigos        amigos.Service
	Notifications notifications.Service

	Customers customers.Service
	Dashboard dashboard.Service
	Feed      *dashboard.Feed
	Posts     posts.Service
	Masters   masters.Service
	Staff     staff.Service
	Settings  settings.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Redis, p.Loading))
	})
	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route(router.StaffPrefix, func(r chi.Router) {
		staffRoutes(r, p)
	})
	r.Group(func(r chi.Router) {
		consumerRoutes(r, p)
	})

	return r
}

func consumerRoutes(r chi.Router, p Params) {
	cfg, logg, pages := p.Config, p.Logger, p.ConsumerPages
	r.Use(middleware.Session(middleware.SessionParams{
		Portal:     enums.PortalConsumer,
		Config:     cfg.Session,
		Store:      p.Sessions,
		Navigators: p.Registry,
		Logger:     logg,
	}))

	limit := middleware.LoginRateLimit(middleware.NewLoginRateLimitPolicy(
		"consumer",
		"email",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginAccountLimit,
	), p.Redis, pages, logg)

	r.Get("/", http.RedirectHandler(router.PagePath(enums.PortalConsumer, router.PageHome), http.StatusFound).ServeHTTP)
	r.NotFound(fallback(pages))
	r.With(limit).Post("/login", consumercontrollers.Login(pages, p.Auth, logg))
	r.With(limit).Post("/register", consumercontrollers.Register(pages, p.Auth, logg))

	page := func(pg router.Page) chi.Router {
		return r.With(middleware.Guard(pages), middleware.Navigate(p.Registry), middleware.Mount(pg))
	}
	page(router.PageLogin).Get("/login", consumercontrollers.LoginPage(pages))
	page(router.PageRegister).Get("/register", consumercontrollers.RegisterPage(pages))
	page(router.PageProfileSetup).Get("/profile-setup", consumercontrollers.ProfileSetupPage(pages, p.Profile))
	page(router.PageHome).Get("/home", consumercontrollers.Home(pages, p.Stores, p.Checkins, logg))
	page(router.PageProfile).Get("/profile", consumercontrollers.ProfilePage(pages, p.Profile))
	page(router.PageBottles).Get("/bottles", consumercontrollers.Bottles(pages, p.Bottles))
	page(router.PageBottleDetail).Get("/bottles/{id}", consumercontrollers.BottleDetail(pages, p.Bottles))
	page(router.PageStoreDetail).Get("/stores/{id}", consumercontrollers.StoreDetail(pages, p.Stores))
	page(router.PageCheckin).Get("/checkin", consumercontrollers.CheckinPage(pages, p.Checkins, logg))
	page(router.PageUserProfile).Get("/users/{id}", consumercontrollers.UserProfile(pages, p.Profile))
	page(router.PageAmigos).Get("/amigos", consumercontrollers.AmigosPage(pages, p.Amigos, p.Checkins, logg))
	page(router.PageNotifications).Get("/notifications", consumercontrollers.Notifications(pages, p.Notifications))
	page(router.PageShare).Get("/shares/{id}", consumercontrollers.SharePage(pages, p.Bottles, p.Amigos))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(pages), middleware.Navigate(p.Registry))
		r.Post("/logout", consumercontrollers.Logout(pages, p.Auth, logg))
		r.Post("/profile-setup", consumercontrollers.ProfileSetup(pages, p.Profile))
		r.Post("/profile", consumercontrollers.ProfileSave(pages, p.Profile))
		r.Post("/checkin", consumercontrollers.Checkin(pages, p.Checkins))
		r.Post("/checkin/scanner", controllers.ScannerAcquire(router.PageCheckin, logg))
		r.Post("/checkin/scan", controllers.ScannerScan(router.PageCheckin, consumercontrollers.CheckinScan(), logg))
		r.Post("/amigos/qr", consumercontrollers.RefreshQR(pages, p.Amigos))
		r.Post("/amigos/request", consumercontrollers.RequestAmigo(pages, p.Amigos))
		r.Post("/amigos/{id}/accept", consumercontrollers.AcceptAmigo(pages, p.Amigos))
		r.Post("/amigos/scanner", controllers.ScannerAcquire(router.PageAmigos, logg))
		r.Post("/amigos/scan", controllers.ScannerScan(router.PageAmigos, consumercontrollers.AmigoScan(p.Amigos), logg))
		r.Post("/bottles/{id}/share", consumercontrollers.Share(pages, p.Bottles))
		r.Post("/shares/{id}/end", consumercontrollers.EndShare(pages, p.Bottles))
	})
}

func staffRoutes(r chi.Router, p Params) {
	cfg, logg, pages := p.Config, p.Logger, p.StaffPages
	r.Use(middleware.Session(middleware.SessionParams{
		Portal:     enums.PortalStaff,
		Config:     cfg.Session,
		Store:      p.Sessions,
		Navigators: p.Registry,
		Logger:     logg,
	}))

	limit := middleware.LoginRateLimit(middleware.NewLoginRateLimitPolicy(
		"staff",
		"store_id",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginAccountLimit,
	), p.Redis, pages, logg)

	r.Get("/", http.RedirectHandler(router.PagePath(enums.PortalStaff, router.PageDashboard), http.StatusFound).ServeHTTP)
	r.NotFound(fallback(pages))
	r.With(limit).Post("/login", staffcontrollers.Login(pages, p.Auth, logg))

	page := func(pg router.Page) chi.Router {
		return r.With(middleware.Guard(pages), middleware.Navigate(p.Registry), middleware.Mount(pg))
	}
	pollSeconds := int(cfg.Dashboard.PollInterval.Seconds())
	page(router.PageLogin).Get("/login", staffcontrollers.LoginPage(pages))
	page(router.PageDashboard).Get("/dashboard", staffcontrollers.Dashboard(pages, p.Dashboard, pollSeconds))
	page(router.PageCustomers).Get("/customers", staffcontrollers.Customers(pages, p.Customers))
	page(router.PageCustomerDetail).Get("/customers/{id}", staffcontrollers.CustomerDetail(pages, p.Customers))
	page(router.PagePosts).Get("/posts", staffcontrollers.Posts(pages, p.Posts))
	master := staffcontrollers.Master(pages, staffcontrollers.MasterServices{
		Masters:  p.Masters,
		Staff:    p.Staff,
		Settings: p.Settings,
	}, logg)
	page(router.PageMaster).Get("/master", master)
	page(router.PageMaster).Get("/master/{tab}", master)
	page(router.PageGifts).Get("/gifts", staffcontrollers.GiftsPage(pages, p.Customers))
	page(router.PageBottleKeeps).Get("/bottle-keeps", staffcontrollers.BottleKeeps(pages, p.Bottles))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(pages), middleware.Navigate(p.Registry))
		r.Post("/logout", staffcontrollers.Logout(pages, p.Auth, logg))
		r.Get("/dashboard/feed", staffcontrollers.DashboardFeed(p.Dashboard, p.Feed, logg))

		r.Post("/customers/{id}/checkin", staffcontrollers.StartCheckin(pages, p.Customers))
		r.Post("/checkins/{id}/end", staffcontrollers.EndCheckin(pages, p.Customers))
		r.Post("/customers/{id}/bottles/remaining", staffcontrollers.SaveRemaining(pages, p.Bottles, logg))
		r.Post("/customers/{id}/bottles", staffcontrollers.AddBottle(pages, p.Bottles))
		r.Post("/customers/{id}/memos", staffcontrollers.AddMemo(pages, p.Customers))

		r.Post("/posts", staffcontrollers.CreatePost(pages, p.Posts))
		r.Post("/posts/{id}", staffcontrollers.UpdatePost(pages, p.Posts))
		r.Post("/posts/{id}/delete", staffcontrollers.DeletePost(pages, p.Posts))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMama(pages))
			r.Post("/customers/{id}/bottles/{bottleID}/refill", staffcontrollers.RefillBottle(pages, p.Bottles))
			r.Post("/gifts", staffcontrollers.Gift(pages, p.Bottles))
			r.Post("/master/bottles", staffcontrollers.SaveMaster(pages, p.Masters))
			r.Post("/master/bottles/{id}", staffcontrollers.SaveMaster(pages, p.Masters))
			r.Post("/master/bottles/{id}/delete", staffcontrollers.DeleteMaster(pages, p.Masters))
			r.Post("/master/staff", staffcontrollers.CreateStaff(pages, p.Staff))
			r.Post("/master/staff/{id}", staffcontrollers.UpdateStaff(pages, p.Staff))
			r.Post("/master/staff/{id}/toggle", staffcontrollers.ToggleStaff(pages, p.Staff))
			r.Post("/master/staff/{id}/delete", staffcontrollers.DeleteStaff(pages, p.Staff))
			r.Post("/master/settings", staffcontrollers.SaveSettings(pages, p.Settings))
		})
	})
}

// fallback sends unknown paths to the portal's default page. The guard
// runs first, so anonymous visitors land on login instead.
func fallback(pages *responses.Pages) http.HandlerFunc {
	portal := pages.Portal()
	target := router.PagePath(portal, router.DefaultPage(portal))
	return middleware.Guard(pages)(http.RedirectHandler(target, http.StatusFound)).ServeHTTP
}
