package router // package router wires handlers and middleware onto an echo instance

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/farm-biosecurity/internal/config"
	"github.com/iliyamo/farm-biosecurity/internal/handler"
	"github.com/iliyamo/farm-biosecurity/internal/logger"
	"github.com/iliyamo/farm-biosecurity/internal/middleware"
	"github.com/iliyamo/farm-biosecurity/internal/repository"
	"github.com/iliyamo/farm-biosecurity/internal/service"
	"github.com/iliyamo/farm-biosecurity/internal/view"
)

// Deps is everything the HTTP layer needs.  Redis may be nil, in which
// case rate limiting and response caching are skipped.
type Deps struct {
	Cfg      config.Config
	DB       *sql.DB
	Redis    *redis.Client
	Notifier service.AlertNotifier
	Log      *logger.Logger
}

// New builds a fully wired echo instance.
func New(d Deps) (*echo.Echo, error) {
	rnd, err := view.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = rnd
	e.Validator = handler.NewValidator()

	users := repository.NewUserRepo(d.DB)
	sessions := repository.NewSessionRepo(d.DB)
	farms := repository.NewFarmRepo(d.DB)
	risks := repository.NewRiskRepo(d.DB)
	checklists := repository.NewChecklistRepo(d.DB)
	training := repository.NewTrainingRepo(d.DB)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(middleware.LoadSession(d.Cfg.SecretKey, d.Cfg.CookieSecure, sessions, users, d.Log))

	auth := handler.NewAuthHandler(d.Cfg, users, sessions, d.Log)
	dash := handler.NewDashboardHandler(farms, d.Log)
	admin := handler.NewAdminHandler(users, farms, training, d.Log)
	admin.PurgeTraining = func(ctx context.Context) error {
		return middleware.PurgeCache(ctx, d.Cfg.Cache, d.Redis, "/training")
	}
	farm := handler.NewFarmHandler(farms, risks, checklists, d.Notifier, d.Log)
	lib := handler.NewTrainingHandler(training, d.Log)

	RegisterRoutes(e, d, dash, lib)
	RegisterAuth(e, auth, middleware.NewTokenBucket(d.Cfg.RateLimit, d.Redis, d.Log))
	RegisterAdmin(e, admin)
	RegisterFarm(e, farm, admin)
	return e, nil
}

// RegisterRoutes registers the public pages.
func RegisterRoutes(e *echo.Echo, d Deps, dash *handler.DashboardHandler, lib *handler.TrainingHandler) {
	e.GET("/healthz", handler.Health(d.DB))
	e.GET("/", dash.Index)
	e.GET("/training", lib.List, middleware.NewRedisCache(d.Cfg.Cache, d.Redis))
	e.GET("/dashboard", dash.Dashboard, middleware.RequireLogin())
	e.GET("/favicon.ico", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
}

// RegisterAuth registers registration, login and logout.  Form submissions
// pass through the token bucket.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	e.GET("/register", a.ShowRegister)
	e.POST("/register", a.Register, limiter)
	e.GET("/login", a.ShowLogin)
	e.POST("/login", a.Login, limiter)
	e.GET("/logout", a.Logout, middleware.RequireLogin())
}
