package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/liftbook/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/liftbook/internal/adapters/metrics"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler    *AuthHandler
	LiftHandler    *LiftHandler
	StatsHandler   *StatsHandler
	HealthHandler  *HealthHandler
	RoutineHandler *RoutineHandler
	ProfileHandler *ProfileHandler
	TokenService   middleware.TokenValidator

	// DB and Redis are optional; a nil value is reported as disabled.
	DB    Pinger
	Redis *redis.Client

	Metrics  *metrics.Manager
	Gatherer prometheus.Gatherer
	Log      logrus.FieldLogger

	AllowedOrigins  []string
	RateLimit       int
	RateLimitWindow time.Duration
	StartTime       time.Time
}

func NewRouter(deps RouterDependencies) http.Handler {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}

	router := gin.New()

	var panics prometheus.Counter
	if deps.Metrics != nil {
		panics = deps.Metrics.CounterHandleRequestPanic
	}
	router.Use(middleware.PanicRecovery(deps.Log, panics))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.RequestLogger(deps.Log))

	if deps.Redis != nil && deps.RateLimit > 0 {
		window := deps.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		var rejected prometheus.Counter
		if deps.Metrics != nil {
			rejected = deps.Metrics.CounterRateLimited
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, window, deps.Log, rejected))
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)
	apiV1.POST("/names/normalize", NormalizeNames)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))
	{
		deps.AuthHandler.RegisterProtectedRoutes(protected)
		deps.LiftHandler.RegisterRoutes(protected)
		deps.StatsHandler.RegisterRoutes(protected)
		deps.HealthHandler.RegisterRoutes(protected)
		deps.RoutineHandler.RegisterRoutes(protected)
		deps.ProfileHandler.RegisterRoutes(protected)
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	})

	return c.Handler(router)
}
