package middleware

// identity.go holds the context keys set by LoadSession and the accessors
// handlers use to read them back.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/access"
    "github.com/iliyamo/farm-biosecurity/internal/model"
)

const (
    ctxUser        = "user"
    ctxActor       = "actor"
    ctxSessionHash = "session_hash"
)

// CurrentUser returns the logged-in user or nil.
func CurrentUser(c echo.Context) *model.User {
    u, _ := c.Get(ctxUser).(*model.User)
    return u
}

// CurrentActor returns the logged-in actor; the zero Actor when anonymous.
func CurrentActor(c echo.Context) access.Actor {
    a, _ := c.Get(ctxActor).(access.Actor)
    return a
}

// SessionHash returns the token hash of the active session, if any.
func SessionHash(c echo.Context) string {
    s, _ := c.Get(ctxSessionHash).(string)
    return s
}

// userID returns a key fragment identifying the caller, "guest" when
// anonymous.
func userID(c echo.Context) string {
    a := CurrentActor(c)
    if a.IsZero() {
        return "guest"
    }
    return strconv.FormatUint(a.ID, 10)
}
