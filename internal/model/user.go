package model

import (
    "fmt"
    "strings"
    "time"
)

// Role is the closed set of account roles.  A role is chosen at
// registration and never changes afterwards.
type Role string

const (
    RoleAdmin  Role = "admin"
    RoleFarmer Role = "farmer"
    RoleVet    Role = "vet"
)

// ParseRole normalizes s and maps it onto one of the known roles.
// Unknown values return an error; callers decide on any default.
func ParseRole(s string) (Role, error) {
    switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
    case RoleAdmin, RoleFarmer, RoleVet:
        return r, nil
    default:
        return "", fmt.Errorf("unknown role %q", s)
    }
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
    switch r {
    case RoleAdmin, RoleFarmer, RoleVet:
        return true
    default:
        return false
    }
}

// Label is the human-facing role name shown in templates.
func (r Role) Label() string {
    switch r {
    case RoleAdmin:
        return "Administrator"
    case RoleFarmer:
        return "Farmer"
    case RoleVet:
        return "Veterinarian"
    default:
        return "Unknown"
    }
}

// User represents an account as stored in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – admin, farmer or vet.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         Role      // users.role
    CreatedAt    time.Time // users.created_at
}

// Session models a row in the `sessions` table.  The raw token only
// lives inside the signed session cookie; the table keeps its SHA‑256
// hash so a logout can revoke it server-side.
type Session struct {
    ID        uint64     // sessions.id
    UserID    uint64     // sessions.user_id
    TokenHash string     // sessions.token_hash
    ExpiresAt time.Time  // sessions.expires_at
    RevokedAt *time.Time // sessions.revoked_at (nullable)
    CreatedAt time.Time  // sessions.created_at
}
