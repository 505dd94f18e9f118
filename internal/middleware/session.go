package middleware

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/access"
    "github.com/iliyamo/farm-biosecurity/internal/flash"
    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/utils"
)

// SessionCookie is the name of the cookie carrying the signed session JWT.
const SessionCookie = "farm_session"

// SessionStore validates persisted sessions by token hash.
type SessionStore interface {
    Validate(ctx context.Context, tokenHash string) (*model.Session, error)
}

// UserLoader fetches the account a session belongs to.
type UserLoader interface {
    GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// LoadSession resolves the session cookie, when present, into the current
// user.  It never rejects a request: pages that need a login are wrapped in
// RequireLogin.  A cookie that fails verification is cleared with the same
// Secure attribute it was issued with.
func LoadSession(secret string, secure bool, sessions SessionStore, users UserLoader, log *logger.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ck, err := c.Cookie(SessionCookie)
            if err != nil || ck.Value == "" {
                return next(c)
            }
            claims, err := utils.ParseSessionToken(secret, ck.Value)
            if err != nil {
                ClearSessionCookie(c, secure)
                return next(c)
            }
            uid, err := claims.UserID()
            if err != nil {
                ClearSessionCookie(c, secure)
                return next(c)
            }
            ctx := c.Request().Context()
            hash := utils.HashToken(claims.ID)
            sess, err := sessions.Validate(ctx, hash)
            if err != nil || sess.UserID != uid {
                if err != nil {
                    log.Debug("session rejected", "user_id", uid, "error", err)
                }
                ClearSessionCookie(c, secure)
                return next(c)
            }
            u, err := users.GetByID(ctx, uid)
            if err != nil {
                log.Warn("session user missing", "user_id", uid, "error", err)
                ClearSessionCookie(c, secure)
                return next(c)
            }
            c.Set(ctxUser, u)
            c.Set(ctxActor, access.Actor{ID: u.ID, Role: u.Role})
            c.Set(ctxSessionHash, hash)
            return next(c)
        }
    }
}

// RequireLogin redirects anonymous visitors to the login page.
func RequireLogin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if CurrentUser(c) == nil {
                flash.Add(c, flash.Info, "Please log in to access this page.")
                return c.Redirect(http.StatusFound, "/login")
            }
            return next(c)
        }
    }
}

// SetSessionCookie writes the signed session token.
func SetSessionCookie(c echo.Context, tok utils.SessionToken, secure bool) {
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    tok.Signed,
        Path:     "/",
        Expires:  tok.Exp,
        HttpOnly: true,
        Secure:   secure,
        SameSite: http.SameSiteLaxMode,
    })
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c echo.Context, secure bool) {
    c.SetCookie(&http.Cookie{
        Name:     SessionCookie,
        Value:    "",
        Path:     "/",
        Expires:  time.Unix(0, 0),
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   secure,
        SameSite: http.SameSiteLaxMode,
    })
}
