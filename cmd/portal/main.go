package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/bottle-amigo/api/middleware"
	"github.com/angelmondragon/bottle-amigo/api/responses"
	"github.com/angelmondragon/bottle-amigo/api/routes"
	"github.com/angelmondragon/bottle-amigo/internal/amigos"
	"github.com/angelmondragon/bottle-amigo/internal/auth"
	"github.com/angelmondragon/bottle-amigo/internal/bff"
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
	"github.com/angelmondragon/bottle-amigo/internal/views"
	"github.com/angelmondragon/bottle-amigo/pkg/auth/session"
	"github.com/angelmondragon/bottle-amigo/pkg/config"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/logger"
	"github.com/angelmondragon/bottle-amigo/pkg/metrics"
	"github.com/angelmondragon/bottle-amigo/pkg/redis"
	"github.com/angelmondragon/bottle-amigo/web"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "portal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "portal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(runCtx, cfg, logg); err != nil {
		logg.Error(context.Background(), "portal stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		return err
	}
	registry := router.NewRegistry()
	// Drops navigators of sessions that stopped sending requests.
	go registry.RunSweeper(ctx, sweepInterval(cfg.Session.TTL), cfg.Session.TTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	bffMetrics := metrics.NewBFFMetrics(reg)
	pollerMetrics := metrics.NewPollerMetrics(reg)

	// A 401 from the BFF ends the portal session behind the request.
	onUnauthorized := func(ctx context.Context) {
		s := session.FromContext(ctx)
		if s == nil {
			return
		}
		if err := sessionManager.Revoke(ctx, s.Portal, s.ID); err != nil {
			logg.Error(ctx, "session.revoke.failed", err)
		}
		registry.Drop(s.ID)
	}

	consumerLoading := bff.NewLoading()
	consumerClient, err := bff.NewClient(cfg.BFF,
		bff.WithLogger(logg),
		bff.WithMetrics(bffMetrics),
		bff.WithLoading(consumerLoading),
		bff.WithUnauthorizedHook(onUnauthorized),
		bff.WithPortal(enums.PortalConsumer.String()),
	)
	if err != nil {
		return err
	}
	staffClient, err := bff.NewClient(cfg.BFF,
		bff.WithLogger(logg),
		bff.WithMetrics(bffMetrics),
		bff.WithUnauthorizedHook(onUnauthorized),
		bff.WithPortal(enums.PortalStaff.String()),
	)
	if err != nil {
		return err
	}

	renderer, err := views.NewRenderer(web.Templates)
	if err != nil {
		return err
	}
	pagesFor := func(portal enums.Portal) *responses.Pages {
		return responses.NewPages(responses.PagesParams{
			Portal:   portal,
			Renderer: renderer,
			Cookie:   middleware.CookieName(cfg.Session, portal),
			Secure:   cfg.Session.SecureCookie,
			Logger:   logg,
		})
	}

	params := routes.Params{
		Config:        cfg,
		Logger:        logg,
		Redis:         redisClient,
		Sessions:      sessionManager,
		Registry:      registry,
		Gatherer:      reg,
		Loading:       consumerLoading,
		ConsumerPages: pagesFor(enums.PortalConsumer),
		StaffPages:    pagesFor(enums.PortalStaff),
		Feed: dashboard.NewFeed(dashboard.FeedParams{
			Interval: cfg.Dashboard.PollInterval,
			Logger:   logg,
			Metrics:  pollerMetrics,
		}),
	}

	if params.Auth, err = auth.NewService(auth.ServiceParams{
		API:            consumerClient,
		SessionManager: sessionManager,
		SessionConfig:  cfg.Session,
		Navigators:     registry,
		Logger:         logg,
	}); err != nil {
		return err
	}
	if params.Profile, err = profile.NewService(consumerClient); err != nil {
		return err
	}
	if params.Stores, err = stores.NewService(consumerClient); err != nil {
		return err
	}
	if params.Checkins, err = checkin.NewService(consumerClient, logg); err != nil {
		return err
	}
	if params.Amigos, err = amigos.NewService(consumerClient, amigos.NewCodec(cfg.Amigo.QRPrefix)); err != nil {
		return err
	}
	if params.Notifications, err = notifications.NewService(consumerClient); err != nil {
		return err
	}
	if params.Bottles, err = bottles.NewService(bottles.ServiceParams{
		Consumer: consumerClient,
		Store:    staffClient,
		Logger:   logg,
	}); err != nil {
		return err
	}
	if params.Customers, err = customers.NewService(staffClient, logg); err != nil {
		return err
	}
	if params.Dashboard, err = dashboard.NewService(staffClient); err != nil {
		return err
	}
	if params.Posts, err = posts.NewService(staffClient); err != nil {
		return err
	}
	if params.Masters, err = masters.NewService(staffClient); err != nil {
		return err
	}
	if params.Staff, err = staff.NewService(staffClient, logg); err != nil {
		return err
	}
	if params.Settings, err = settings.NewService(staffClient); err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
		"bff":  cfg.BFF.BaseURL,
	})
	logg.Info(logCtx, "starting portal server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "portal shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		return time.Minute
	}
	return interval
}
