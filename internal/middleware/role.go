package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/access"
    "github.com/iliyamo/farm-biosecurity/internal/flash"
)

// RequireAdmin lets the request through only when access.CanManage allows
// the current actor.  Anonymous visitors go to the login page; other roles
// are sent back to their dashboard with a flash message.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            actor := CurrentActor(c)
            if actor.IsZero() {
                flash.Add(c, flash.Info, "Please log in to access this page.")
                return c.Redirect(http.StatusFound, "/login")
            }
            if !access.CanManage(actor) {
                flash.Add(c, flash.Danger, "Access denied.")
                return c.Redirect(http.StatusFound, "/dashboard")
            }
            return next(c)
        }
    }
}
