// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrEmailExists is returned when registering an email that is already
// taken.  Handlers translate this into a flash and a redirect.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidRole is returned when creating a user with an unknown role.
var ErrInvalidRole = errors.New("invalid role")

// ErrUserNotFound is returned when a user lookup finds no row.
var ErrUserNotFound = errors.New("user not found")

// ErrFarmNotFound is returned when a farm cannot be found in the DB.
var ErrFarmNotFound = errors.New("farm not found")

// ErrSessionInvalid is returned for unknown, expired or revoked sessions.
var ErrSessionInvalid = errors.New("session invalid")

// isDuplicateKey reports whether err is a unique-constraint violation
// from either supported driver.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
