package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cors "github.com/rs/cors/wrapper/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/catalog/domain"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/config"
	folderdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/folder/domain"
	obscontext "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/context"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/logger"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/metrics"
	"github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/observability/tracing"
	quotedomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/quote/domain"
	settingsdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/settings/domain"
	valuationdomain "github.com/amin-rhajaoui/powercee-monorepo-sub000/internal/valuation/domain"
)

const orgIDHeader = "X-Org-Id"

// Module wires the HTTP surface: tracer, metrics, gin engine and lifecycle.
var Module = fx.Module("server",
	fx.Provide(
		NewHTTPMetrics,
		NewPricingMetrics,
		NewServer,
		NewEngine,
	),
	fx.Invoke(NewTracerProvider, RunHTTP),
)

// Server holds the handler dependencies.
type Server struct {
	cfg          config.Config
	log          *zap.Logger
	db           *gorm.DB
	quoteSvc     quotedomain.Service
	settingsSvc  settingsdomain.Service
	catalogSvc   catalogdomain.Service
	folderSvc    folderdomain.Service
	valuationSvc valuationdomain.Service
	limiter      *orgRateLimiter
}

type ServerParam struct {
	fx.In

	Cfg          config.Config
	Log          *zap.Logger
	DB           *gorm.DB
	QuoteSvc     quotedomain.Service
	SettingsSvc  settingsdomain.Service
	CatalogSvc   catalogdomain.Service
	FolderSvc    folderdomain.Service
	ValuationSvc valuationdomain.Service
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		db:           p.DB,
		quoteSvc:     p.QuoteSvc,
		settingsSvc:  p.SettingsSvc,
		catalogSvc:   p.CatalogSvc,
		folderSvc:    p.FolderSvc,
		valuationSvc: p.ValuationSvc,
		limiter:      newOrgRateLimiter(120, time.Minute),
	}
}

func NewTracerProvider(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
	_, err := tracing.NewProvider(lc, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.Tracing.OTLPEndpoint,
		Protocol:    cfg.Tracing.OTLPProtocol,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, log)
	return err
}

func NewHTTPMetrics(cfg config.Config) (*metrics.HTTPMetrics, error) {
	provider, err := metrics.NewMeterProvider()
	if err != nil {
		return nil, err
	}
	return metrics.NewHTTPMetrics(metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}, provider)
}

func NewPricingMetrics(cfg config.Config) *metrics.PricingMetrics {
	return metrics.PricingWithConfig(metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
}

// NewEngine builds the gin engine with the full middleware stack and routes.
func NewEngine(s *Server, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(tracing.GinMiddleware())
	r.Use(metrics.GinMiddleware(httpMetrics))

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.RegisterAPIRoutes(r)
	return r
}

// RegisterAPIRoutes mounts the tenant-scoped API under /v1.
func (s *Server) RegisterAPIRoutes(r *gin.Engine) {
	v1 := r.Group("/v1")
	v1.Use(s.OrgRequired())
	v1.Use(s.RateLimit())

	v1.POST("/quotes/simulate", s.SimulateQuote)

	v1.GET("/settings/:operation_code", s.GetSettings)
	v1.PUT("/settings/:operation_code", s.UpdateSettings)

	v1.GET("/valuations", s.ListValuations)
	v1.PUT("/valuations", s.UpsertValuation)

	v1.POST("/products", s.CreateProduct)
	v1.GET("/products", s.ListProducts)

	v1.POST("/folders", s.CreateFolder)
	v1.GET("/folders/:id", s.GetFolder)
}

// OrgRequired resolves the tenant from the X-Org-Id header.
func (s *Server) OrgRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(orgIDHeader))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set("org_id", orgID.String())
		c.Request = c.Request.WithContext(obscontext.WithOrgID(c.Request.Context(), orgID.String()))
		c.Next()
	}
}

// RateLimit applies a fixed per-org request budget.
func (s *Server) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(obscontext.OrgIDFromGin(c)) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// @Summary      Health check
// @Tags         ops
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func orgIDFromGin(c *gin.Context) (snowflake.ID, error) {
	raw := obscontext.OrgIDFromGin(c)
	if raw == "" {
		return 0, ErrUnauthorized
	}
	orgID, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, ErrUnauthorized
	}
	return orgID, nil
}

// RunHTTP starts the HTTP listener on the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})
}
