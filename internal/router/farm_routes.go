package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-biosecurity/internal/handler"
	"github.com/iliyamo/farm-biosecurity/internal/middleware"
)

// RegisterFarm registers the farm pages.  Farm creation is admin-only;
// the per-farm routes require a login and check access per farm.
func RegisterFarm(e *echo.Echo, f *handler.FarmHandler, a *handler.AdminHandler) {
	g := e.Group("/farm", middleware.RequireLogin())

	adminOnly := middleware.RequireAdmin()
	g.GET("/new", a.ShowNewFarm, adminOnly)
	g.POST("/new", a.NewFarm, adminOnly)

	g.GET("/:id", f.View)
	g.GET("/:id/risk", f.ShowRisk)
	g.POST("/:id/risk", f.SubmitRisk)
	g.GET("/:id/checklist", f.ShowChecklist)
	g.POST("/:id/checklist", f.SubmitChecklist)
}
