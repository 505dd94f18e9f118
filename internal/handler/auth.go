package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/config"
    "github.com/iliyamo/farm-biosecurity/internal/flash"
    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/middleware"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/repository"
    "github.com/iliyamo/farm-biosecurity/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and logout.
type AuthHandler struct {
    Cfg      config.Config
    Users    *repository.UserRepo
    Sessions *repository.SessionRepo
    Log      *logger.Logger
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo, log *logger.Logger) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Log: log}
}

type registerForm struct {
    Name     string `form:"name" validate:"required,max=100"`
    Email    string `form:"email" validate:"required,email,max=120"`
    Password string `form:"password" validate:"required,min=6,max=72"`
    Role     string `form:"role"`
}

type loginForm struct {
    Email    string `form:"email" validate:"required,email"`
    Password string `form:"password" validate:"required"`
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
    return render(c, http.StatusOK, "register", "Register", registerForm{Role: string(model.RoleFarmer)})
}

// Register creates a farmer or vet account.  A missing role means farmer;
// admin accounts can only self-register when explicitly allowed.
func (h *AuthHandler) Register(c echo.Context) error {
    var f registerForm
    if err := c.Bind(&f); err != nil {
        return h.registerFailed(c, f, "Invalid form submission.")
    }
    f.Name = strings.TrimSpace(f.Name)
    f.Email = repository.NormalizeEmail(f.Email)
    if err := c.Validate(&f); err != nil {
        return h.registerFailed(c, f, describe(err))
    }
    role, ok := h.resolveRole(f.Role)
    if !ok {
        return h.registerFailed(c, f, "Please choose a valid role.")
    }

    ctx, cancel := dbCtx(c)
    defer cancel()
    u, err := h.Users.Create(ctx, f.Name, f.Email, f.Password, role, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return redirect(c, flash.Danger, "Email already exists", "/register")
        }
        return serverError(c, h.Log, "create user", err)
    }
    h.Log.Info("user registered", "user_id", u.ID, "role", string(u.Role), "email", u.Email)
    return redirect(c, flash.Success, "Registration successful. Please login.", "/login")
}

func (h *AuthHandler) resolveRole(raw string) (model.Role, bool) {
    if strings.TrimSpace(raw) == "" {
        return model.RoleFarmer, true
    }
    role, err := model.ParseRole(raw)
    if err != nil {
        return "", false
    }
    if role == model.RoleAdmin && !h.Cfg.AllowAdminRegistration {
        return "", false
    }
    return role, true
}

func (h *AuthHandler) registerFailed(c echo.Context, f registerForm, msg string) error {
    f.Password = ""
    flash.Add(c, flash.Danger, msg)
    return render(c, http.StatusBadRequest, "register", "Register", f)
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
    if middleware.CurrentUser(c) != nil {
        return c.Redirect(http.StatusFound, "/dashboard")
    }
    return render(c, http.StatusOK, "login", "Login", loginForm{})
}

// Login verifies credentials, stores a server-side session and sets the
// session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
    var f loginForm
    if err := c.Bind(&f); err != nil {
        return h.loginFailed(c, f, "Invalid form submission.")
    }
    f.Email = repository.NormalizeEmail(f.Email)
    if err := c.Validate(&f); err != nil {
        return h.loginFailed(c, f, describe(err))
    }

    ctx, cancel := dbCtx(c)
    defer cancel()
    u, err := h.Users.GetByEmail(ctx, f.Email)
    if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
        return serverError(c, h.Log, "load user", err)
    }
    if u == nil || !utils.VerifyPassword(u.PasswordHash, f.Password) {
        h.Log.Info("login failed", "email", f.Email)
        return h.loginFailed(c, f, "Invalid credentials")
    }

    tok, err := utils.NewSessionToken(h.Cfg.SecretKey, u.ID, string(u.Role), h.Cfg.SessionTTL)
    if err != nil {
        return serverError(c, h.Log, "issue session", err)
    }
    if err := h.Sessions.Store(ctx, u.ID, tok.Hash, tok.Exp); err != nil {
        return serverError(c, h.Log, "store session", err)
    }
    middleware.SetSessionCookie(c, tok, h.Cfg.CookieSecure)
    h.Log.Info("user logged in", "user_id", u.ID, "role", string(u.Role))
    return redirect(c, flash.Success, "Logged in!", "/dashboard")
}

func (h *AuthHandler) loginFailed(c echo.Context, f loginForm, msg string) error {
    f.Password = ""
    flash.Add(c, flash.Danger, msg)
    return render(c, http.StatusUnauthorized, "login", "Login", f)
}

// Logout revokes the server-side session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
    if hash := middleware.SessionHash(c); hash != "" {
        ctx, cancel := dbCtx(c)
        defer cancel()
        if err := h.Sessions.Revoke(ctx, hash); err != nil {
            h.Log.Warn("revoke session", "error", err)
        }
    }
    middleware.ClearSessionCookie(c, h.Cfg.CookieSecure)
    return redirect(c, flash.Info, "Logged out", "/")
}
