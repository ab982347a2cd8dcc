package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shirry/webserver/internal/config"
	"github.com/shirry/webserver/internal/server/middlewares"
)

// AdminServer serves the admin API under /api/v1 and metrics under /metrics.
type AdminServer struct {
	srv    *http.Server
	engine *gin.Engine
	log    *zap.SugaredLogger
}

// NewAdminServer builds the gin engine. registerHandlerFn receives the
// /api/v1 group, already behind authentication when it is enabled.
func NewAdminServer(cfg *config.Configuration, gatherer prom.Gatherer, registerHandlerFn func(router *gin.RouterGroup)) *AdminServer {
	if cfg.Admin.ServerMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(
		middlewares.Logger(),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	if gatherer == nil {
		gatherer = prom.DefaultGatherer
	}
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router := engine.Group("/api/v1")
	if cfg.Auth.Enabled {
		router.Use(middlewares.Authenticator([]byte(cfg.Auth.Secret)))
	}
	registerHandlerFn(router)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &AdminServer{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Admin.Address, strconv.Itoa(cfg.Admin.Port)),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
		log:    zap.S().Named("admin_server"),
	}
}

func (a *AdminServer) Handler() http.Handler {
	return a.engine
}

// Start blocks until the server stops. It returns nil after Stop.
func (a *AdminServer) Start(ctx context.Context) error {
	a.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	a.log.Infow("admin server listening", "address", a.srv.Addr)
	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests until ctx is done.
func (a *AdminServer) Stop(ctx context.Context) error {
	a.log.Info("stopping admin server")
	return a.srv.Shutdown(ctx)
}
