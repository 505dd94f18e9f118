package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/flash"
    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/middleware"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/repository"
    "github.com/iliyamo/farm-biosecurity/internal/view"
)

// dbTimeout bounds every store call made while serving a request.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// render wraps data in a view.Page carrying the current user and any
// pending flash messages.
func render(c echo.Context, status int, name, title string, data any) error {
    return c.Render(status, name, view.Page{
        Title:   title,
        User:    middleware.CurrentUser(c),
        Flashes: flash.Pop(c),
        Data:    data,
    })
}

// redirect queues a flash message and answers with 302.
func redirect(c echo.Context, kind, msg, to string) error {
    flash.Add(c, kind, msg)
    return c.Redirect(http.StatusFound, to)
}

// serverError logs err and answers with a plain 500.
func serverError(c echo.Context, log *logger.Logger, msg string, err error) error {
    log.Error(msg, "path", c.Path(), "error", err)
    return c.String(http.StatusInternalServerError, "Internal server error")
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

// loadFarm resolves the :id path parameter.  When it returns a nil farm
// the response has already been written (404 or 500).
func loadFarm(c echo.Context, farms *repository.FarmRepo, log *logger.Logger) (*model.Farm, error) {
    id, ok := parseID(c, "id")
    if !ok {
        return nil, c.String(http.StatusNotFound, "Farm not found")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    f, err := farms.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrFarmNotFound) {
            return nil, c.String(http.StatusNotFound, "Farm not found")
        }
        return nil, serverError(c, log, "load farm", err)
    }
    return f, nil
}
