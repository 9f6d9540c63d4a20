package router

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neuroexam/clinic-api/internal/config"
	"github.com/neuroexam/clinic-api/internal/handler"
	"github.com/neuroexam/clinic-api/internal/middleware"
	authsvc "github.com/neuroexam/clinic-api/internal/service/auth"
	"github.com/neuroexam/clinic-api/pkg/logger"
)

// Handler registers a group of routes under /api/v1.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine       *gin.Engine
	cfg          *config.Config
	authSvc      *authsvc.Service
	healthH      *handler.Health
	publicH      []Handler
	protectedH   []Handler
	statsCache   *middleware.StatsCache
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func initRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

// NewRouter assembles the engine with the full middleware chain. Handlers
// in public skip the bearer guard even when auth is enabled.
func NewRouter(cfg *config.Config, log *logger.Logger, authSvc *authsvc.Service, healthH *handler.Health, public []Handler, protected []Handler) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:     engine,
		cfg:        cfg,
		authSvc:    authSvc,
		healthH:    healthH,
		publicH:    public,
		protectedH: protected,
		statsCache: middleware.NewStatsCache(time.Duration(cfg.Server.StatsCacheTTL) * time.Second),
		metrics:    initRouterMetrics(),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		r.metricsMiddleware(),
		middleware.Timeout(time.Duration(cfg.Server.TimeoutSeconds)*time.Second),
		middleware.CORS(cfg.CORS.AllowOrigins),
	)

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	engine.Use(rateLimiter.Handler())

	return r
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	for _, h := range r.publicH {
		h.RegisterRoutes(api)
	}

	protected := api.Group("")
	if r.cfg.Auth.Enabled {
		protected.Use(middleware.Auth(r.authSvc))
	}
	protected.Use(r.statsCacheFor())
	for _, h := range r.protectedH {
		h.RegisterRoutes(protected)
	}
}

// statsCacheFor applies the short response cache to the statistics
// endpoints only.
func (r *Router) statsCacheFor() gin.HandlerFunc {
	cached := r.statsCache.Handler()
	return func(c *gin.Context) {
		if strings.HasSuffix(c.Request.URL.Path, "/estatisticas") {
			cached(c)
			return
		}
		c.Next()
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
