package main

import (
	"context"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/farm-biosecurity/internal/database"
	"github.com/iliyamo/farm-biosecurity/internal/repository"
)

func TestSeedIsRepeatable(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	if err := database.Migrate(ctx, db, database.DriverSQLite); err != nil {
		t.Fatal(err)
	}
	r := repos{
		users:      repository.NewUserRepo(db),
		farms:      repository.NewFarmRepo(db),
		risks:      repository.NewRiskRepo(db),
		checklists: repository.NewChecklistRepo(db),
		training:   repository.NewTrainingRepo(db),
	}
	for i := 0; i < 2; i++ {
		if err := seed(ctx, r, "pw", bcrypt.MinCost); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	counts := map[string]int{"users": 3, "farms": 2, "risk_assessments": 3, "checklists": 3, "training_modules": 2}
	for table, want := range counts {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Errorf("%s = %d, want %d", table, n, want)
		}
	}

	farms, err := r.farms.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range farms {
		if f.Name == "Hilltop Poultry" && f.HasVet() {
			t.Error("Hilltop Poultry should have no vet")
		}
	}
}
