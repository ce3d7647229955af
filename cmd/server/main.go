package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/yoga-studio-booking/internal/api"
	"github.com/iliyamo/yoga-studio-booking/internal/cache"
	"github.com/iliyamo/yoga-studio-booking/internal/config"
	"github.com/iliyamo/yoga-studio-booking/internal/database"
	"github.com/iliyamo/yoga-studio-booking/internal/handler"
	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/middleware"
	"github.com/iliyamo/yoga-studio-booking/internal/netstatus"
	"github.com/iliyamo/yoga-studio-booking/internal/queue"
	"github.com/iliyamo/yoga-studio-booking/internal/repository"
	"github.com/iliyamo/yoga-studio-booking/internal/router"
	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Configure(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("mysql: connect failed")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("mysql: migrate failed")
	}

	cacheCfg := config.LoadCacheConfig()
	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable: response cache and rate limiting disabled, course cache in memory")
	} else {
		defer rdb.Close()
	}
	queueCfg := config.LoadQueueConfig()

	// repositories
	courses := repository.NewCourseRepo(db)
	instances := repository.NewClassInstanceRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	instructors := repository.NewInstructorRepo(db)

	// services
	catalog := service.NewCatalog(courses, instances, cache.New(rdb, cacheCfg), loc)
	publisher := service.NewAMQPPublisher(queueCfg)
	defer publisher.Close()
	notifier := service.NewNotifier(catalog, instances,
		repository.NewNotificationRepo(db), repository.NewSubscriptionRepo(db), publisher)
	catalog.SetNotifier(notifier)

	checker := netstatus.NewChecker(2*time.Second).
		Require("database", db.PingContext).
		Optional("broker", publisher.Ping)
	if rdb != nil {
		checker.Optional("cache", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}
	syncer := service.NewSync(catalog, checker.Online)

	if cfg.SeedSampleData {
		if seeded, err := service.NewSeeder(catalog, instructors).Seed(ctx); err != nil {
			logger.Error().Err(err).Msg("seeding sample data failed")
		} else if seeded {
			logger.Info().Msg("sample data inserted")
		}
	}

	if queueCfg.RelayEnabled {
		sink := queue.NewFileSink(queueCfg.LogDir)
		relay := queue.NewRelay(queueCfg, sink)
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("notification relay stopped")
			}
		}()
		logger.Info().Str("file", sink.Path()).Msg("notification relay started")
	}

	facade := api.NewFacade(catalog, service.NewBookings(repository.NewBookingRepo(db), instances, catalog))

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Catalog:      handler.NewCatalogHandler(catalog),
		Search:       handler.NewSearchHandler(service.NewSearch(courses, instances, loc), loc),
		Enrollment:   handler.NewEnrollmentHandler(service.NewEnrollments(repository.NewEnrollmentRepo(db)), catalog),
		Booking:      handler.NewBookingHandler(facade, users),
		Instructor:   handler.NewInstructorHandler(service.NewInstructors(instructors)),
		Notification: handler.NewNotificationHandler(notifier),
		Admin:        handler.NewAdminHandler(catalog, syncer),
		Status:       handler.NewStatusHandler(checker, true),
	}, cfg.JWTSecret, middleware.NewResponseCache(cacheCfg, rdb))

	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Str("timezone", loc.String()).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
