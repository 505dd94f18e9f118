package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/middleware"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/repository"
)

// DashboardHandler serves the landing page and the per-role dashboard.
type DashboardHandler struct {
    Farms *repository.FarmRepo
    Log   *logger.Logger
}

func NewDashboardHandler(f *repository.FarmRepo, log *logger.Logger) *DashboardHandler {
    return &DashboardHandler{Farms: f, Log: log}
}

func (h *DashboardHandler) Index(c echo.Context) error {
    return render(c, http.StatusOK, "index", "Welcome", nil)
}

type dashboardData struct {
    Farms []*model.Farm
}

// Dashboard lists every farm for admins, assigned farms for vets and owned
// farms for farmers.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
    actor := middleware.CurrentActor(c)
    ctx, cancel := dbCtx(c)
    defer cancel()

    var (
        farms []*model.Farm
        err   error
    )
    switch actor.Role {
    case model.RoleAdmin:
        farms, err = h.Farms.ListAll(ctx)
    case model.RoleVet:
        farms, err = h.Farms.ListByVet(ctx, actor.ID)
    case model.RoleFarmer:
        farms, err = h.Farms.ListByOwner(ctx, actor.ID)
    }
    if err != nil {
        return serverError(c, h.Log, "list farms", err)
    }
    return render(c, http.StatusOK, "dashboard", "Dashboard", dashboardData{Farms: farms})
}
