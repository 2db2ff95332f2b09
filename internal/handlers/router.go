package handlers

import (
	"time"

	"github.com/Ghawri/Cattle-insurance-agent/internal/config"
	"github.com/Ghawri/Cattle-insurance-agent/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
)

type RouterConfig struct {
	Env              config.Environment
	APIPrefix        string
	CORSOrigins      []string
	UploadRateLimit  int64
	UploadRatePeriod time.Duration
	MaxUploadBytes   int64
	// LimiterStore backs the upload rate limit. Nil keeps counters in memory.
	LimiterStore limiter.Store
}

type Dependencies struct {
	Identity     IdentityProvider
	Farmers      FarmerRegistry
	Policies     PolicyBook
	Claims       ClaimWorkflow
	HealthChecks map[string]HealthCheck
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	Logger       zerolog.Logger
}

// NewRouter builds the gin engine with every route under cfg.APIPrefix.
func NewRouter(cfg RouterConfig, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(deps.Logger))
	r.Use(RequestLogger(deps.Logger, deps.Metrics))
	r.Use(CORS(cfg.CORSOrigins, cfg.Env, deps.Logger))

	api := r.Group(cfg.APIPrefix)

	NewHealthHandler(deps.HealthChecks, deps.Gatherer).RegisterRoutes(api)

	authHandler := NewAuthHandler(deps.Identity, deps.Logger)
	authHandler.RegisterPublicRoutes(api)

	var uploadLimit gin.HandlerFunc
	if cfg.UploadRateLimit > 0 && cfg.UploadRatePeriod > 0 {
		uploadLimit = NewRateLimiter(cfg.LimiterStore, cfg.UploadRateLimit, cfg.UploadRatePeriod)
	}
	NewUploadHandler(deps.Claims, cfg.MaxUploadBytes, deps.Logger).RegisterRoutes(api, uploadLimit)

	protected := api.Group("")
	protected.Use(AuthMiddleware(deps.Identity, deps.Logger))
	authHandler.RegisterRoutes(protected)
	NewFarmerHandler(deps.Farmers).RegisterRoutes(protected)
	NewPolicyHandler(deps.Policies).RegisterRoutes(protected)
	NewClaimHandler(deps.Claims).RegisterRoutes(protected)

	return r
}
