// This file holds the farm directory: creating farms, looking them up and
// listing them by owner, assigned vet or globally.  Farms anchor every
// assessment and checklist, so deleting one removes those rows as well.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/farm-biosecurity/internal/model"
)

// FarmRepo encapsulates all database queries related to farms.
type FarmRepo struct {
	db *sql.DB
}

// NewFarmRepo constructs a FarmRepo with the provided DB handle.
func NewFarmRepo(db *sql.DB) *FarmRepo {
	return &FarmRepo{db: db}
}

const farmSelect = `SELECT f.id, f.name, f.location, f.animal_count, f.farmer_id, f.vet_id, f.created_at,
       COALESCE(fu.name, ''), COALESCE(vu.name, '')
  FROM farms f
  LEFT JOIN users fu ON fu.id = f.farmer_id
  LEFT JOIN users vu ON vu.id = f.vet_id`

// Create inserts a new farm.  On success the farm's ID and CreatedAt
// fields are populated.
func (r *FarmRepo) Create(ctx context.Context, f *model.Farm) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	f.CreatedAt = time.Now().UTC()

	var vet any
	if f.HasVet() {
		vet = *f.VetID
	}
	const q = "INSERT INTO farms (name, location, animal_count, farmer_id, vet_id, created_at) VALUES (?, ?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, f.Name, f.Location, f.AnimalCount, f.FarmerID, vet, f.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a farm with its farmer and vet names.  It returns
// ErrFarmNotFound if no row is found.
func (r *FarmRepo) GetByID(ctx context.Context, id uint64) (*model.Farm, error) {
	f, err := scanFarm(r.db.QueryRowContext(ctx, farmSelect+" WHERE f.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFarmNotFound
		}
		return nil, err
	}
	return f, nil
}

// ListByOwner returns the farms owned by a farmer ordered by id.
func (r *FarmRepo) ListByOwner(ctx context.Context, farmerID uint64) ([]*model.Farm, error) {
	return r.list(ctx, farmSelect+" WHERE f.farmer_id = ? ORDER BY f.id", farmerID)
}

// ListByVet returns the farms a vet is assigned to ordered by id.
func (r *FarmRepo) ListByVet(ctx context.Context, vetID uint64) ([]*model.Farm, error) {
	return r.list(ctx, farmSelect+" WHERE f.vet_id = ? ORDER BY f.id", vetID)
}

// ListAll returns every farm ordered by id.
func (r *FarmRepo) ListAll(ctx context.Context) ([]*model.Farm, error) {
	return r.list(ctx, farmSelect+" ORDER BY f.id")
}

func (r *FarmRepo) list(ctx context.Context, q string, args ...any) ([]*model.Farm, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Farm
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a farm together with its checklists and risk
// assessments.  The deletion occurs within a transaction so a failure
// leaves every row in place.  ErrFarmNotFound is returned for unknown ids.
func (r *FarmRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var exists uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM farms WHERE id = ?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrFarmNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM checklists WHERE farm_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM risk_assessments WHERE farm_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM farms WHERE id = ?`, id)
	return err
}

func scanFarm(s rowScanner) (*model.Farm, error) {
	var (
		f   model.Farm
		vet sql.NullInt64
	)
	if err := s.Scan(&f.ID, &f.Name, &f.Location, &f.AnimalCount, &f.FarmerID, &vet, &f.CreatedAt,
		&f.FarmerName, &f.VetName); err != nil {
		return nil, err
	}
	if vet.Valid && vet.Int64 > 0 {
		v := uint64(vet.Int64)
		f.VetID = &v
	}
	return &f, nil
}
