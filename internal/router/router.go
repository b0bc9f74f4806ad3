package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/dental-clinic-api/internal/config"
	"github.com/jwalitptl/dental-clinic-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/dental-clinic-api/internal/handler/appointment"
	authHandler "github.com/jwalitptl/dental-clinic-api/internal/handler/auth"
	patientHandler "github.com/jwalitptl/dental-clinic-api/internal/handler/patient"
	"github.com/jwalitptl/dental-clinic-api/internal/middleware"
)

type Router struct {
	engine       *gin.Engine
	cfg          *config.Config
	h            *handler.Handler
	authH        *authHandler.Handler
	patientH     *patientHandler.Handler
	appointmentH *appointmentHandler.Handler
	authMW       *middleware.AuthMiddleware
	metrics      *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(
	cfg *config.Config,
	h *handler.Handler,
	authH *authHandler.Handler,
	patientH *patientHandler.Handler,
	appointmentH *appointmentHandler.Handler,
	authMW *middleware.AuthMiddleware,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:       engine,
		cfg:          cfg,
		h:            h,
		authH:        authH,
		patientH:     patientH,
		appointmentH: appointmentH,
		authMW:       authMW,
		metrics:      initRouterMetrics("dental_clinic_api"),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
	)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	engine.Use(middleware.CORS(corsConfig))

	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/", r.h.Root)
	r.engine.GET("/ready", r.h.ReadinessCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api")
	api.GET("/health", r.h.HealthCheck)
	r.authH.RegisterRoutes(api)

	data := api.Group("")
	if r.cfg.Auth.Required {
		data.Use(r.authMW.RequireAuth())
	}
	r.patientH.RegisterRoutes(data)
	r.appointmentH.RegisterRoutes(data)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	prometheus.MustRegister(r.metrics.requestDuration, r.metrics.requestTotal, r.metrics.errorTotal)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
