package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ngrobisa/artifactory-plugin/internal/auth"
	"github.com/ngrobisa/artifactory-plugin/internal/config"
	"github.com/ngrobisa/artifactory-plugin/internal/promote"
	"github.com/ngrobisa/artifactory-plugin/internal/registry"
	"github.com/ngrobisa/artifactory-plugin/internal/repository"
	"github.com/ngrobisa/artifactory-plugin/internal/server/routes"
	"github.com/ngrobisa/artifactory-plugin/internal/usecase"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"gorm.io/gorm"
)

type Config struct {
	Config *config.Config
	Logger zerolog.Logger
}

type Server struct {
	e      *echo.Echo
	config *Config
}

func New(config *Config) *Server {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRemoteIP:  true,
		LogHost:      true,
		LogMethod:    true,
		LogURI:       true,
		LogUserAgent: true,
		LogStatus:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			config.Logger.Info().
				Str("remote_ip", v.RemoteIP).
				Str("host", v.Host).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("user_agent", v.UserAgent).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("handled request")
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			config.Logger.Error().Err(err).Bytes("stack", stack).Send()
			return err
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := config.Logger.WithContext(req.Context())
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	})

	s := &Server{e: e, config: config}
	s.init()
	return s
}

func (s *Server) init() {
	injector := do.New()
	s.injectDependencies(injector)
	s.registerRoutes(injector)
}

func (s *Server) injectDependencies(injector *do.Injector) {
	cfg := s.config.Config
	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return repository.NewSQLiteDB(cfg.DataDir)
	})
	do.Provide(injector, func(i *do.Injector) (*registry.Registry, error) {
		return registry.New(cfg.Servers), nil
	})
	do.Provide(injector, func(i *do.Injector) (*auth.Authorizer, error) {
		return auth.NewAuthorizer(cfg.Permissions.Promote), nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.BuildRepository, error) {
		db := do.MustInvoke[*gorm.DB](i)
		return repository.NewBuildRepository(db), nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.PromotionRepository, error) {
		db := do.MustInvoke[*gorm.DB](i)
		return repository.NewPromotionRepository(db), nil
	})
	do.Provide(injector, func(i *do.Injector) (*promote.Manager, error) {
		recorder := repository.NewPromotionRecorder(
			do.MustInvoke[repository.BuildRepository](i),
			do.MustInvoke[repository.PromotionRepository](i),
		)
		return promote.NewManager(recorder, cfg.Worker.MinVisibleDuration.Std(), s.config.Logger), nil
	})
	do.Provide(injector, usecase.NewRegisterBuildUsecase)
	do.Provide(injector, usecase.NewListBuildsUsecase)
	do.Provide(injector, usecase.NewGetPromotionViewUsecase)
	do.Provide(injector, usecase.NewSubmitPromotionUsecase)
	do.Provide(injector, usecase.NewGetPromotionLogUsecase)
}

func (s *Server) registerRoutes(injector *do.Injector) {
	routes.RegisterRestAPI(injector, s.e)
	routes.RegisterPromotionAPI(injector, s.e)
}

// Echo exposes the underlying router; the tests drive it directly.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) Start() error {
	s.config.Logger.Info().Str("addr", s.config.Config.Listen).Msg("starting server")
	return s.e.Start(s.config.Config.Listen)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
