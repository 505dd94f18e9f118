// Command seed fills the database with demo accounts, farms and records.
//
//	go run ./cmd/seed          # add demo data
//	go run ./cmd/seed -reset   # drop every table first
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/iliyamo/farm-biosecurity/internal/assessment"
	"github.com/iliyamo/farm-biosecurity/internal/config"
	"github.com/iliyamo/farm-biosecurity/internal/database"
	"github.com/iliyamo/farm-biosecurity/internal/logger"
	"github.com/iliyamo/farm-biosecurity/internal/model"
	"github.com/iliyamo/farm-biosecurity/internal/repository"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before seeding")
	password := flag.String("password", "password123", "password for every demo account")
	flag.Parse()

	cfg := config.Load()
	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		lg.Fatal("database open failed", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *reset {
		if err := database.Reset(ctx, db); err != nil {
			lg.Fatal("reset failed", "error", err)
		}
		lg.Info("tables dropped")
	}
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		lg.Fatal("migration failed", "error", err)
	}

	if err := seed(ctx, repos{
		users:      repository.NewUserRepo(db),
		farms:      repository.NewFarmRepo(db),
		risks:      repository.NewRiskRepo(db),
		checklists: repository.NewChecklistRepo(db),
		training:   repository.NewTrainingRepo(db),
	}, *password, cfg.BcryptCost); err != nil {
		lg.Fatal("seed failed", "error", err)
	}
	lg.Info("seed complete")
}

type repos struct {
	users      *repository.UserRepo
	farms      *repository.FarmRepo
	risks      *repository.RiskRepo
	checklists *repository.ChecklistRepo
	training   *repository.TrainingRepo
}

// seed is idempotent for accounts: existing emails are reused.  Farms and
// records are only created when the demo farmer owns no farm yet.
func seed(ctx context.Context, r repos, password string, cost int) error {
	if _, err := ensureUser(ctx, r.users, "Admin", "admin@example.com", password, model.RoleAdmin, cost); err != nil {
		return err
	}
	farmer, err := ensureUser(ctx, r.users, "Farmer Joe", "farmer@example.com", password, model.RoleFarmer, cost)
	if err != nil {
		return err
	}
	vet, err := ensureUser(ctx, r.users, "Dr. Vet", "vet@example.com", password, model.RoleVet, cost)
	if err != nil {
		return err
	}

	owned, err := r.farms.ListByOwner(ctx, farmer.ID)
	if err != nil {
		return err
	}
	if len(owned) > 0 {
		return nil
	}

	green := &model.Farm{Name: "Green Pastures", Location: "North Valley", AnimalCount: 120, FarmerID: farmer.ID, VetID: &vet.ID}
	hill := &model.Farm{Name: "Hilltop Poultry", Location: "East Ridge", AnimalCount: 800, FarmerID: farmer.ID}
	for _, f := range []*model.Farm{green, hill} {
		if err := r.farms.Create(ctx, f); err != nil {
			return err
		}
	}

	answers := []struct {
		farm   *model.Farm
		author *model.User
		q      [3]int
		notes  string
	}{
		{green, farmer, [3]int{1, 1, 2}, "Footbaths refreshed weekly"},
		{green, vet, [3]int{3, 4, 2}, "Visitor log incomplete"},
		{hill, farmer, [3]int{5, 4, 4}, "Wild birds seen near feed store"},
	}
	for _, a := range answers {
		res, err := assessment.ComputeRiskLevel(a.q[0], a.q[1], a.q[2])
		if err != nil {
			return err
		}
		if err := r.risks.Create(ctx, &model.RiskAssessment{
			FarmID: a.farm.ID, UserID: a.author.ID, Score: res.Score, Level: string(res.Level), Notes: a.notes,
		}); err != nil {
			return err
		}
	}

	checks := []struct {
		farm                   *model.Farm
		author                 *model.User
		hygiene, feed, visitor bool
	}{
		{green, farmer, true, true, false},
		{green, vet, true, true, true},
		{hill, farmer, false, true, false},
	}
	for _, ch := range checks {
		if err := r.checklists.Create(ctx, &model.Checklist{
			FarmID: ch.farm.ID, UserID: ch.author.ID,
			Hygiene: ch.hygiene, FeedQuality: ch.feed, VisitorControl: ch.visitor,
			Compliance: assessment.ComputeCompliance(ch.hygiene, ch.feed, ch.visitor),
		}); err != nil {
			return err
		}
	}

	for _, m := range []*model.TrainingModule{
		{Title: "Biosecurity basics", Description: "Farm entry points, footbaths and vehicle hygiene.", URL: "https://example.com/training/basics.pdf"},
		{Title: "Disease reporting", Description: "Recognising notifiable diseases and who to call.", URL: "https://example.com/training/reporting"},
	} {
		if err := r.training.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(ctx context.Context, users *repository.UserRepo, name, email, password string, role model.Role, cost int) (*model.User, error) {
	u, err := users.Create(ctx, name, email, password, role, cost)
	if errors.Is(err, repository.ErrEmailExists) {
		return users.GetByEmail(ctx, email)
	}
	return u, err
}
