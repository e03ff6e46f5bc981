package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	auditdomain "github.com/smallbiznis/spotlight/internal/audit/domain"
	"github.com/smallbiznis/spotlight/internal/config"
	"github.com/smallbiznis/spotlight/internal/observability/logger"
	"github.com/smallbiznis/spotlight/internal/observability/tracing"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(RunHTTP),
)

type ServerParam struct {
	fx.In

	Engine      *gin.Engine
	Config      config.Config
	Log         *zap.Logger
	AuctionSvc  auctiondomain.Service
	SettingsSvc settingsdomain.Resolver
	Audit       auditdomain.Recorder `optional:"true"`
}

// Server exposes the administrative auction surface. Privileged-caller
// checks happen in the gateway layer in front of this service.
type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	auctionSvc  auctiondomain.Service
	settingsSvc settingsdomain.Resolver
	audit       auditdomain.Recorder
	clearLimit  *rateLimiter
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware("spotlight"))
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	return engine
}

func NewServer(p ServerParam) *Server {
	return &Server{
		engine:      p.Engine,
		cfg:         p.Config,
		log:         p.Log.Named("server"),
		auctionSvc:  p.AuctionSvc,
		settingsSvc: p.SettingsSvc,
		audit:       p.Audit,
		clearLimit:  newRateLimiter(30, time.Minute),
	}
}

func (s *Server) RegisterAPIRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := s.engine.Group("/api/admin/auction")
	admin.GET("/sessions", s.ListAuctionSessions)
	admin.POST("/clear", s.ClearAuctionWindow)
	admin.PUT("/settings", s.UpsertAuctionSettings)
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
