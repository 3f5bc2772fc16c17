package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/afigueroa/mailprov-backend/api/routes"
	"github.com/afigueroa/mailprov-backend/internal/analytics"
	"github.com/afigueroa/mailprov-backend/internal/audit"
	"github.com/afigueroa/mailprov-backend/internal/billing"
	"github.com/afigueroa/mailprov-backend/internal/delivery"
	"github.com/afigueroa/mailprov-backend/internal/emaillog"
	"github.com/afigueroa/mailprov-backend/internal/orders"
	"github.com/afigueroa/mailprov-backend/internal/users"
	"github.com/afigueroa/mailprov-backend/pkg/auth/session"
	"github.com/afigueroa/mailprov-backend/pkg/config"
	"github.com/afigueroa/mailprov-backend/pkg/db"
	"github.com/afigueroa/mailprov-backend/pkg/logger"
	"github.com/afigueroa/mailprov-backend/pkg/mailer"
	"github.com/afigueroa/mailprov-backend/pkg/metrics"
	"github.com/afigueroa/mailprov-backend/pkg/migrate"
	"github.com/afigueroa/mailprov-backend/pkg/polar"
	pkgredis "github.com/afigueroa/mailprov-backend/pkg/redis"
	"github.com/afigueroa/mailprov-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sealer, err := security.NewSealer(cfg.Security.CredentialKey)
	if err != nil {
		logg.Error(context.Background(), "failed to initialize credential sealer", err)
		os.Exit(1)
	}

	var sender mailer.Sender
	if mailClient, err := mailer.NewClient(cfg.Resend); err != nil {
		logg.Warn(context.Background(), "resend not configured, outbound email disabled")
	} else {
		sender = mailClient
	}

	var polarClient *polar.Client
	if client, err := polar.NewClient(cfg.Polar); err != nil {
		logg.Warn(context.Background(), "polar not configured, subscription checks disabled")
	} else {
		polarClient = client
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	conn := dbClient.DB()
	usersRepo := users.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)
	logsRepo := emaillog.NewRepository(conn)
	activityRepo := audit.NewRepository(conn)
	recorder := audit.NewRecorder(conn)

	usersService, err := users.NewService(usersRepo, dbClient, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, usersRepo, dbClient, recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	deliveryService, err := delivery.NewService(
		ordersRepo,
		usersRepo,
		logsRepo,
		recorder,
		sealer,
		sender,
		dbClient,
		metrics.NewDeliveryMetrics(registry),
		logg,
		cfg.Delivery,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create delivery service", err)
		os.Exit(1)
	}

	var subscriptionChecker billing.SubscriptionChecker
	if polarClient != nil {
		subscriptionChecker = polarClient
	}
	billingService, err := billing.NewService(ordersRepo, usersRepo, logsRepo, subscriptionChecker, sender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(usersRepo, ordersRepo, activityRepo, cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Sessions:     session.NewChecker(redisClient),
			Registry:     registry,
			HTTPMetrics:  metrics.NewHTTPMetrics(registry),
			Users:        usersService,
			Orders:       ordersService,
			Delivery:     deliveryService,
			Billing:      billingService,
			Analytics:    analyticsService,
			Activity:     activityRepo,
			WebhookGuard: pkgredis.NewWebhookGuard(redisClient, cfg.Delivery.IdempotencyTTL),
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining connections")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
