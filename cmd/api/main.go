package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/liftbook/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/liftbook/internal/adapters/handler/http"
	"github.com/comitanigiacomo/liftbook/internal/adapters/metrics"
	"github.com/comitanigiacomo/liftbook/internal/adapters/repository"
	"github.com/comitanigiacomo/liftbook/internal/config"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/comitanigiacomo/liftbook/internal/core/session"
	"github.com/comitanigiacomo/liftbook/internal/core/workers"
	"github.com/comitanigiacomo/liftbook/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Critical: invalid configuration: %v", err)
	}

	log := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogFile,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("liftbook API running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}

	log.Info("server stopped gracefully")
}

type app struct {
	handler http.Handler
	worker  *workers.SummaryWorker
	cancel  context.CancelFunc
	closers []func()
}

// Close stops the worker first so no refresh runs against closed stores.
func (a *app) Close() {
	a.cancel()
	if a.worker != nil {
		a.worker.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type stores struct {
	users        domain.UserRepository
	profiles     domain.ProfileRepository
	measurements domain.MeasurementRepository
	routines     domain.RoutineRepository
}

// newApp wires every adapter and service. Postgres and redis are optional:
// without them the API runs on in-memory stores with no cache.
func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	ctx, cancel := context.WithCancel(ctx)
	a := &app{cancel: cancel}

	var (
		st  stores
		db  *sqlx.DB
		rdb *redis.Client
	)

	if cfg.UsePostgres() {
		log.Info("connecting to database...")
		var err error
		db, err = openDB(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		log.Info("database connected and migrated")

		st = stores{
			users:        repository.NewPostgresUserRepository(db),
			profiles:     repository.NewPostgresProfileRepository(db),
			measurements: repository.NewPostgresMeasurementRepository(db),
			routines:     repository.NewPostgresRoutineRepository(db),
		}
	} else {
		log.Warn("DB_NAME not set, using in-memory stores; data is lost on restart")
		st = stores{
			users:        repository.NewInMemoryUserRepository(),
			profiles:     repository.NewInMemoryProfileRepository(),
			measurements: repository.NewInMemoryMeasurementRepository(),
			routines:     repository.NewInMemoryRoutineRepository(),
		}
	}

	if cfg.UseRedis() {
		var err error
		rdb, err = cache.NewRedisClient(ctx, cache.RedisOptions{
			Host:        cfg.RedisHost,
			Port:        cfg.RedisPort,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			PoolSize:    cfg.RedisPoolSize,
			PingTimeout: cfg.RedisPingTimeout,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		log.Info("redis connected")
	}

	hub := session.NewHub()
	a.closers = append(a.closers, hub.Close)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewManager("liftbook", "api", reg)
	a.closers = append(a.closers, m.WatchSessions(hub))

	measurements := st.measurements
	var (
		summaries services.SummaryCache
		denylist  services.TokenDenylist = cache.NewMemoryDenylist()
	)
	if rdb != nil {
		measurements = repository.NewCachedMeasurementRepository(measurements, rdb, log)
		denylist = cache.NewRedisDenylist(rdb)

		sc := cache.NewSummaryCache(rdb, cfg.SummaryTTL, log)
		a.closers = append(a.closers, sc.Watch(hub))
		summaries = sc
	}

	clock := services.LocalClock(cfg.Location)
	statsService := services.NewStatsService(measurements, summaries, clock, log)

	// Writes drop the cached summary right away; the worker only warms it again.
	var notifier services.ChangeNotifier
	if summaries != nil {
		a.worker = workers.NewSummaryWorker(m.InstrumentRefresher(statsService), cfg.SummaryDelay, log)
		a.worker.Start(ctx)
		notifier = services.NewSummaryNotifier(summaries, a.worker, log)
	}

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenDuration, st.users, denylist)
	authService := services.NewAuthService(st.users, tokenService, hub)
	liftService := services.NewLiftService(measurements, notifier, clock)
	healthService := services.NewHealthService(measurements, clock)
	routineService := services.NewRoutineService(st.routines, measurements, notifier, clock)
	profileService := services.NewProfileService(st.profiles, st.users, clock)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService),
		LiftHandler:     adapterHTTP.NewLiftHandler(liftService, statsService),
		StatsHandler:    adapterHTTP.NewStatsHandler(statsService),
		HealthHandler:   adapterHTTP.NewHealthHandler(healthService),
		RoutineHandler:  adapterHTTP.NewRoutineHandler(routineService),
		ProfileHandler:  adapterHTTP.NewProfileHandler(profileService),
		TokenService:    tokenService,
		Redis:           rdb,
		Metrics:         m,
		Gatherer:        reg,
		Log:             log,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		StartTime:       time.Now(),
	}
	if db != nil {
		deps.DB = db
	}
	a.handler = adapterHTTP.NewRouter(deps)

	return a, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := repository.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
