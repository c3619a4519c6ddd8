package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-saver/internal/api"
	"github.com/sanosuguru/go-seat-saver/internal/api/handler"
	"github.com/sanosuguru/go-seat-saver/internal/api/middleware"
	"github.com/sanosuguru/go-seat-saver/internal/application"
	"github.com/sanosuguru/go-seat-saver/internal/config"
	"github.com/sanosuguru/go-seat-saver/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-seat-saver/internal/infrastructure/rabbitmq"
	infraredis "github.com/sanosuguru/go-seat-saver/internal/infrastructure/redis"
	"github.com/sanosuguru/go-seat-saver/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-saver/internal/pkg/metrics"
	"github.com/sanosuguru/go-seat-saver/internal/worker"
)

func main() {
	app := &cli.App{
		Name:   "seat-saver",
		Usage:  "座席予約API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "APIサーバーを起動する",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "マイグレーションを適用して終了する",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrate(*cli.Context) error {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath)
}

func serve(c *cli.Context) error {
	cfg := config.Load()
	log := logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()

	m := metrics.Init()

	// データベース
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	txManager := postgres.NewTxManager(db)

	// Redis
	redisClient := infraredis.NewClient(&cfg.Redis)
	defer redisClient.Close()
	if err := infraredis.Ping(c.Context, redisClient); err != nil {
		log.Warn("Redisに接続できません（起動は継続）", zap.Error(err))
	}
	cache := infraredis.NewAvailabilityCache(redisClient, 0)

	gate, err := newGate(cfg, redisClient, m)
	if err != nil {
		return err
	}

	opts := []application.ServiceOption{
		application.WithAvailabilityCache(cache),
		application.WithMetrics(m),
	}
	if cfg.RabbitMQ.Enabled() {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			log.Error("RabbitMQに接続できません（通知なしで継続）", zap.Error(err))
		} else {
			defer publisher.Close()
			opts = append(opts, application.WithPublisher(publisher))
		}
	}

	reservationService := application.NewReservationService(
		gate, txManager, eventRepo, customerRepo, venueRepo, orderRepo, opts...,
	)
	availabilityService := application.NewAvailabilityService(eventRepo, venueRepo, orderRepo, cache)
	eventService := application.NewEventService(eventRepo)

	// HTTPサーバー
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e, m)
	handler.RegisterRoutes(e, handler.Handlers{
		Reservation: handler.NewReservationHandler(reservationService),
		Order:       handler.NewOrderHandler(reservationService),
		Event:       handler.NewEventHandler(eventService, availabilityService),
		Health:      handler.NewHealthHandler(postgres.NewPinger(db), infraredis.NewPinger(redisClient)),
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	warmer := worker.NewAvailabilityWarmer(availabilityService, cfg.Worker.AvailabilityInterval)
	go warmer.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("サーバー起動", zap.String("port", cfg.Server.Port), zap.String("gate", cfg.Reservation.Gate))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		warmer.Stop()
		return fmt.Errorf("サーバー起動エラー: %w", err)
	}

	log.Info("サーバーをシャットダウンしています...")
	warmer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
	}

	log.Info("サーバーが正常にシャットダウンしました")
	return nil
}

// newGate は設定に応じた予約ゲートを返す
func newGate(cfg *config.Config, client goredis.Cmdable, m *metrics.Metrics) (application.Gate, error) {
	switch cfg.Reservation.Gate {
	case config.GateLocal:
		return application.InstrumentGate(application.NewMutexGate(), config.GateLocal, m), nil
	case config.GateRedis:
		g := infraredis.NewGlobalGate(
			infraredis.NewLockManager(client),
			cfg.Reservation.LockTTL,
			cfg.Reservation.LockRetries,
			cfg.Reservation.LockRetryDelay,
		)
		return application.InstrumentGate(g, config.GateRedis, m), nil
	default:
		return nil, fmt.Errorf("不明なゲート種別: %q", cfg.Reservation.Gate)
	}
}
