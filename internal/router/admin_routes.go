package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-biosecurity/internal/handler"
	"github.com/iliyamo/farm-biosecurity/internal/middleware"
)

// RegisterAdmin registers admin-only endpoints under /admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler) {
	g := e.Group("/admin", middleware.RequireAdmin())

	g.GET("", a.Panel)
	g.GET("/add_farm", a.ShowAddFarm)
	g.POST("/add_farm", a.AddFarm)
	g.GET("/export", a.ExportCSV)
	g.GET("/export.xlsx", a.ExportXLSX)
	g.POST("/farm/:id/delete", a.DeleteFarm)
	g.GET("/training", a.ShowTraining)
	g.POST("/training", a.AddTraining)
}
