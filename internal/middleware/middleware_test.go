package middleware

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/config"
    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/utils"
)

const testSecret = "test-secret"

type fakeSessions map[string]uint64

func (f fakeSessions) Validate(_ context.Context, hash string) (*model.Session, error) {
    if id, ok := f[hash]; ok {
        return &model.Session{UserID: id, TokenHash: hash, ExpiresAt: time.Now().Add(time.Hour)}, nil
    }
    return nil, errors.New("invalid")
}

type fakeUsers map[uint64]*model.User

func (f fakeUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
    if u, ok := f[id]; ok {
        return u, nil
    }
    return nil, errors.New("not found")
}

func newEcho(sessions fakeSessions, users fakeUsers) *echo.Echo {
    return newEchoSecure(sessions, users, false)
}

func newEchoSecure(sessions fakeSessions, users fakeUsers, secure bool) *echo.Echo {
    e := echo.New()
    e.Use(LoadSession(testSecret, secure, sessions, users, logger.NewNop()))
    e.GET("/whoami", func(c echo.Context) error {
        u := CurrentUser(c)
        if u == nil {
            return c.String(http.StatusOK, "anonymous")
        }
        return c.String(http.StatusOK, u.Name+":"+string(CurrentActor(c).Role))
    })
    e.GET("/private", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, RequireLogin())
    e.GET("/admin", func(c echo.Context) error { return c.String(http.StatusOK, "admin") }, RequireAdmin())
    return e
}

func issue(t *testing.T, userID uint64, role model.Role) utils.SessionToken {
    t.Helper()
    tok, err := utils.NewSessionToken(testSecret, userID, string(role), time.Hour)
    if err != nil {
        t.Fatalf("NewSessionToken: %v", err)
    }
    return tok
}

func do(e *echo.Echo, path string, tok *utils.SessionToken) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, path, nil)
    if tok != nil {
        req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok.Signed})
    }
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestLoadSessionResolvesUser(t *testing.T) {
    tok := issue(t, 7, model.RoleVet)
    e := newEcho(fakeSessions{tok.Hash: 7}, fakeUsers{7: {ID: 7, Name: "Vera", Role: model.RoleVet}})

    rec := do(e, "/whoami", &tok)
    if got := rec.Body.String(); got != "Vera:vet" {
        t.Fatalf("body = %q", got)
    }
}

func TestLoadSessionRejectsRevokedSession(t *testing.T) {
    tok := issue(t, 7, model.RoleVet)
    e := newEcho(fakeSessions{}, fakeUsers{7: {ID: 7, Name: "Vera", Role: model.RoleVet}})

    rec := do(e, "/whoami", &tok)
    if got := rec.Body.String(); got != "anonymous" {
        t.Fatalf("body = %q", got)
    }
    if !strings.Contains(rec.Header().Get("Set-Cookie"), SessionCookie+"=;") {
        t.Fatalf("expected session cookie to be cleared, got %q", rec.Header().Get("Set-Cookie"))
    }
}

func TestClearedSessionCookieKeepsSecureFlag(t *testing.T) {
    tok := issue(t, 7, model.RoleVet)
    e := newEchoSecure(fakeSessions{}, fakeUsers{}, true)

    rec := do(e, "/whoami", &tok)
    var cleared *http.Cookie
    for _, ck := range rec.Result().Cookies() {
        if ck.Name == SessionCookie {
            cleared = ck
        }
    }
    if cleared == nil || cleared.MaxAge >= 0 || !cleared.Secure {
        t.Fatalf("cleared cookie = %+v", cleared)
    }
}

func TestLoadSessionRejectsForeignSignature(t *testing.T) {
    tok, err := utils.NewSessionToken("other-secret", 7, "vet", time.Hour)
    if err != nil {
        t.Fatal(err)
    }
    e := newEcho(fakeSessions{tok.Hash: 7}, fakeUsers{7: {ID: 7, Name: "Vera", Role: model.RoleVet}})

    if got := do(e, "/whoami", &tok).Body.String(); got != "anonymous" {
        t.Fatalf("body = %q", got)
    }
}

func TestRequireLoginRedirects(t *testing.T) {
    e := newEcho(fakeSessions{}, fakeUsers{})
    rec := do(e, "/private", nil)
    if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
        t.Fatalf("got %d %q", rec.Code, rec.Header().Get("Location"))
    }
}

func TestRequireAdmin(t *testing.T) {
    farmerTok := issue(t, 2, model.RoleFarmer)
    adminTok := issue(t, 1, model.RoleAdmin)
    e := newEcho(
        fakeSessions{farmerTok.Hash: 2, adminTok.Hash: 1},
        fakeUsers{
            1: {ID: 1, Name: "Ada", Role: model.RoleAdmin},
            2: {ID: 2, Name: "Fred", Role: model.RoleFarmer},
        },
    )

    rec := do(e, "/admin", &farmerTok)
    if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
        t.Fatalf("farmer: got %d %q", rec.Code, rec.Header().Get("Location"))
    }
    rec = do(e, "/admin", &adminTok)
    if rec.Code != http.StatusOK || rec.Body.String() != "admin" {
        t.Fatalf("admin: got %d %q", rec.Code, rec.Body.String())
    }
    rec = do(e, "/admin", nil)
    if rec.Header().Get("Location") != "/login" {
        t.Fatalf("anonymous: got %q", rec.Header().Get("Location"))
    }
}

func TestMiddlewaresPassThroughWithoutRedis(t *testing.T) {
    e := echo.New()
    rl := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, Prefix: "t"}
    cc := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, Prefix: "t"}
    e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") },
        NewTokenBucket(rl, nil, logger.NewNop()), NewRedisCache(cc, nil))

    for i := 0; i < 3; i++ {
        rec := do(e, "/x", nil)
        if rec.Code != http.StatusOK {
            t.Fatalf("request %d: status %d", i, rec.Code)
        }
        if rec.Header().Get("X-Cache") != "" {
            t.Fatalf("cache header set without redis")
        }
    }
    if err := PurgeCache(context.Background(), cc, nil, "/x"); err != nil {
        t.Fatalf("PurgeCache: %v", err)
    }
}

func TestBuildRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/login", nil)
    req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/login")

    cfg := config.RateLimitConfig{Prefix: "farm:rl", KeyStrategy: "ip_route"}
    if got := buildRateKey(cfg, c); got != "farm:rl:ip:10.0.0.1:route:POST /login" {
        t.Fatalf("ip_route key = %q", got)
    }
    cfg.KeyStrategy = "user_route"
    if got := buildRateKey(cfg, c); got != "farm:rl:user:guest:route:POST /login" {
        t.Fatalf("user_route key = %q", got)
    }
}

func TestCachePayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"text/html; charset=UTF-8"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte("<h1>hi</h1>"))
    if err != nil {
        t.Fatal(err)
    }
    status, got, body, ok := decodePayload(bs)
    if !ok || status != http.StatusOK || string(body) != "<h1>hi</h1>" || got.Get("Content-Type") != "text/html; charset=UTF-8" {
        t.Fatalf("decode = %d %v %q %v", status, got, body, ok)
    }
    if _, _, _, ok := decodePayload([]byte{1, 2}); ok {
        t.Fatal("short payload decoded")
    }
}

func TestCacheKeyDependsOnQuery(t *testing.T) {
    a := CacheKey("p", "/training", "")
    b := CacheKey("p", "/training", "page=2")
    if a == b || !strings.HasPrefix(a, "p:") {
        t.Fatalf("keys %q %q", a, b)
    }
}
