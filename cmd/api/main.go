package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	httptransport "github.com/repcrafter/gateway/internal/api/http"
	"github.com/repcrafter/gateway/internal/api/http/handlers"
	"github.com/repcrafter/gateway/internal/auth"
	"github.com/repcrafter/gateway/internal/billing"
	"github.com/repcrafter/gateway/internal/chat"
	"github.com/repcrafter/gateway/internal/config"
	"github.com/repcrafter/gateway/internal/events"
	"github.com/repcrafter/gateway/internal/observability"
	"github.com/repcrafter/gateway/internal/persistence"
	"github.com/repcrafter/gateway/internal/repository"
	"github.com/repcrafter/gateway/internal/service"
	"github.com/repcrafter/gateway/internal/session"
	"github.com/repcrafter/gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	if cfg.Session.Secret == "" {
		logger.Warn("SESSION_SECRET not provided; sign-in and sessions disabled")
	}
	if cfg.App.DisableAuth {
		logger.Warn("DISABLE_AUTH is set; /api/me reports every caller as paid")
	}

	metrics := observability.NewMetrics()
	tokens := session.NewManager(cfg.Session.Secret, cfg.Session.SessionTTL())
	cookie := auth.CookieOptions{Name: cfg.Session.CookieName, MaxAge: tokens.TTL()}

	var provider billing.Provider
	if cfg.Stripe.Enabled() {
		provider = billing.NewStripe(billing.StripeConfig{
			SecretKey: cfg.Stripe.SecretKey,
			PriceID:   cfg.Stripe.PriceID,
			Plan: billing.Plan{
				ProductName: cfg.Stripe.ProductName,
				UnitAmount:  cfg.Stripe.UnitAmount,
				Currency:    cfg.Stripe.Currency,
				Interval:    cfg.Stripe.Interval,
			},
			APIURL:            cfg.Stripe.APIURL,
			MaxNetworkRetries: cfg.Stripe.MaxNetworkRetries,
		}, logger)
	} else {
		logger.Warn("STRIPE_SECRET_KEY not provided; billing disabled")
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, metrics)
	notifications := worker.StartNotificationWorker(notificationService, dispatcher, 0, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		Verifier:   auth.NewGoogleVerifier(cfg.Google.ClientID, cfg.Google.Timeout()),
		Tokens:     tokens,
		Billing:    provider,
		PaidCache:  billing.NewStatusCache(redis.Handle(), cfg.Cache.PaidStatusTTL(), logger),
		UserRepo:   repository.NewUserRepository(pg.PoolHandle()),
		Dispatcher: notifications,
		Logger:     logger,
	})
	checkoutService := service.NewCheckoutService(provider, notifications, logger)
	chatService := service.NewChatService(chat.NewForwarder(chat.Config{
		WebhookURL: cfg.Chat.WebhookURL,
		BasicUser:  cfg.Chat.BasicUser,
		BasicPass:  cfg.Chat.BasicPass,
		AppTag:     cfg.Chat.AppTag,
		Timeout:    cfg.Chat.Timeout(),
	}, logger), notifications, logger)

	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Session:           handlers.NewSessionHandler(authService, cookie, cfg.App.DisableAuth),
		Checkout:          handlers.NewCheckoutHandler(checkoutService),
		Chat:              handlers.NewChatHandler(chatService),
		SessionMiddleware: auth.NewSessionMiddleware(tokens, cookie, logger, metrics),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := notifications.Stop(shutdownCtx); err != nil {
		logger.Warn("notification worker shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
