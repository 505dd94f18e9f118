package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrateIsIdempotentAndResetDrops(t *testing.T) {
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db, DriverSQLite); err != nil {
			t.Fatalf("migrate pass %d: %v", i+1, err)
		}
	}

	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('users','sessions','farms','risk_assessments','checklists','training_modules')`,
	).Scan(&n); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if n != len(tables) {
		t.Fatalf("got %d tables want %d", n, len(tables))
	}

	if err := Reset(ctx, db); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='farms'`).Scan(&n); err != nil {
		t.Fatalf("count after reset: %v", err)
	}
	if n != 0 {
		t.Fatal("farms table still present after reset")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	if _, err := Open("postgres", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if err := Migrate(context.Background(), nil, "postgres"); err == nil {
		t.Fatal("expected migrate error for unsupported driver")
	}
}
