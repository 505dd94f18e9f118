package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables in creation order; Reset drops them in reverse.
var tables = []string{"users", "sessions", "farms", "risk_assessments", "checklists", "training_modules"}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(140) NOT NULL,
		email VARCHAR(200) NOT NULL,
		password_hash VARCHAR(200) NOT NULL,
		role VARCHAR(30) NOT NULL DEFAULT 'farmer',
		created_at DATETIME NOT NULL,
		UNIQUE KEY uq_users_email (email),
		KEY idx_users_role (role)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL,
		UNIQUE KEY uq_sessions_token (token_hash),
		CONSTRAINT fk_sessions_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS farms (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		location VARCHAR(255) NOT NULL DEFAULT '',
		animal_count INT NOT NULL DEFAULT 0,
		farmer_id BIGINT UNSIGNED NOT NULL,
		vet_id BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL,
		KEY idx_farms_farmer (farmer_id),
		KEY idx_farms_vet (vet_id),
		CONSTRAINT fk_farms_farmer FOREIGN KEY (farmer_id) REFERENCES users(id),
		CONSTRAINT fk_farms_vet FOREIGN KEY (vet_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS risk_assessments (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		farm_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		score INT NOT NULL,
		level VARCHAR(50) NOT NULL,
		notes TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		KEY idx_risk_farm_user (farm_id, user_id),
		CONSTRAINT fk_risk_farm FOREIGN KEY (farm_id) REFERENCES farms(id),
		CONSTRAINT fk_risk_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS checklists (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		farm_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		hygiene TINYINT(1) NOT NULL DEFAULT 0,
		feed_quality TINYINT(1) NOT NULL DEFAULT 0,
		visitor_control TINYINT(1) NOT NULL DEFAULT 0,
		compliance DOUBLE NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		KEY idx_checklists_farm_user (farm_id, user_id),
		CONSTRAINT fk_checklists_farm FOREIGN KEY (farm_id) REFERENCES farms(id),
		CONSTRAINT fk_checklists_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS training_modules (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		url VARCHAR(300) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'farmer',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS farms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		animal_count INTEGER NOT NULL DEFAULT 0,
		farmer_id INTEGER NOT NULL REFERENCES users(id),
		vet_id INTEGER NULL REFERENCES users(id),
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS risk_assessments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		farm_id INTEGER NOT NULL REFERENCES farms(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		score INTEGER NOT NULL,
		level TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS checklists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		farm_id INTEGER NOT NULL REFERENCES farms(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		hygiene BOOLEAN NOT NULL DEFAULT 0,
		feed_quality BOOLEAN NOT NULL DEFAULT 0,
		visitor_control BOOLEAN NOT NULL DEFAULT 0,
		compliance REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS training_modules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_farms_farmer ON farms(farmer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_farms_vet ON farms(vet_id)`,
	`CREATE INDEX IF NOT EXISTS idx_risk_farm_user ON risk_assessments(farm_id, user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_checklists_farm_user ON checklists(farm_id, user_id)`,
}

// Migrate creates every table the application needs.  It is idempotent
// and runs at server start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverMySQL:
		stmts = mysqlSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Reset drops all application tables.  Only the seeder calls it.
func Reset(ctx context.Context, db *sql.DB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+tables[i]); err != nil {
			return fmt.Errorf("drop %s: %w", tables[i], err)
		}
	}
	return nil
}
