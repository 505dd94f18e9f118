package utils // package utils provides helpers for password hashing and session tokens

import (
    "crypto/rand"
    "crypto/sha256"
    "encoding/hex"
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// SessionClaims are carried by the signed session cookie.  The token ID
// (jti) is a random value whose SHA‑256 hash is stored server-side so the
// session can be revoked on logout.
type SessionClaims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// UserID parses the subject claim back into a numeric user id.
func (c *SessionClaims) UserID() (uint64, error) {
    return strconv.ParseUint(c.Subject, 10, 64)
}

// SessionToken is a freshly issued cookie value plus the bits the server
// has to persist.
type SessionToken struct {
    Signed string    // JWT placed in the cookie
    Hash   string    // SHA‑256 hex of the jti, stored in sessions.token_hash
    Exp    time.Time // UTC expiration time
}

// NewSessionToken builds and signs an HS256 session JWT for a user.
func NewSessionToken(secret string, userID uint64, role string, ttl time.Duration) (SessionToken, error) {
    jti, err := randomHex(32)
    if err != nil {
        return SessionToken{}, err
    }
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := SessionClaims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            ID:        jti,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Signed: signed, Hash: HashToken(jti), Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a session JWT.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
    claims := &SessionClaims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil {
        return nil, err
    }
    if !tok.Valid || claims.ID == "" {
        return nil, errors.New("invalid session token")
    }
    return claims, nil
}

// HashToken returns the SHA‑256 hex digest of a raw token value.
func HashToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
