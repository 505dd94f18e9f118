package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/farm-biosecurity/internal/model"
)

// RiskRepo stores risk assessments.
type RiskRepo struct{ db *sql.DB }

func NewRiskRepo(db *sql.DB) *RiskRepo { return &RiskRepo{db: db} }

// Create inserts an assessment and fills its ID and CreatedAt.
func (r *RiskRepo) Create(ctx context.Context, ra *model.RiskAssessment) error {
	ra.Notes = strings.TrimSpace(ra.Notes)
	ra.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO risk_assessments (farm_id, user_id, score, level, notes, created_at) VALUES (?,?,?,?,?,?)",
		ra.FarmID, ra.UserID, ra.Score, ra.Level, ra.Notes, ra.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ra.ID = uint64(id)
	return nil
}

// ListByFarm returns a farm's assessments, newest first.  A non-nil
// authorID restricts the result to rows written by that user.
func (r *RiskRepo) ListByFarm(ctx context.Context, farmID uint64, authorID *uint64) ([]*model.RiskAssessment, error) {
	q := `SELECT ra.id, ra.farm_id, ra.user_id, ra.score, ra.level, ra.notes, ra.created_at, COALESCE(u.name, '')
	        FROM risk_assessments ra
	        LEFT JOIN users u ON u.id = ra.user_id
	       WHERE ra.farm_id = ?`
	args := []any{farmID}
	if authorID != nil {
		q += " AND ra.user_id = ?"
		args = append(args, *authorID)
	}
	q += " ORDER BY ra.created_at DESC, ra.id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RiskAssessment
	for rows.Next() {
		ra := new(model.RiskAssessment)
		if err := rows.Scan(&ra.ID, &ra.FarmID, &ra.UserID, &ra.Score, &ra.Level, &ra.Notes, &ra.CreatedAt, &ra.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}

// ChecklistRepo stores compliance checklists.
type ChecklistRepo struct{ db *sql.DB }

func NewChecklistRepo(db *sql.DB) *ChecklistRepo { return &ChecklistRepo{db: db} }

// Create inserts a checklist and fills its ID and CreatedAt.
func (r *ChecklistRepo) Create(ctx context.Context, cl *model.Checklist) error {
	cl.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO checklists (farm_id, user_id, hygiene, feed_quality, visitor_control, compliance, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		cl.FarmID, cl.UserID, cl.Hygiene, cl.FeedQuality, cl.VisitorControl, cl.Compliance, cl.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cl.ID = uint64(id)
	return nil
}

// ListByFarm returns a farm's checklists, newest first, optionally
// restricted to one author.
func (r *ChecklistRepo) ListByFarm(ctx context.Context, farmID uint64, authorID *uint64) ([]*model.Checklist, error) {
	q := `SELECT c.id, c.farm_id, c.user_id, c.hygiene, c.feed_quality, c.visitor_control, c.compliance, c.created_at, COALESCE(u.name, '')
	        FROM checklists c
	        LEFT JOIN users u ON u.id = c.user_id
	       WHERE c.farm_id = ?`
	args := []any{farmID}
	if authorID != nil {
		q += " AND c.user_id = ?"
		args = append(args, *authorID)
	}
	q += " ORDER BY c.created_at DESC, c.id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Checklist
	for rows.Next() {
		cl := new(model.Checklist)
		if err := rows.Scan(&cl.ID, &cl.FarmID, &cl.UserID, &cl.Hygiene, &cl.FeedQuality, &cl.VisitorControl,
			&cl.Compliance, &cl.CreatedAt, &cl.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	return out, rows.Err()
}

// TrainingRepo stores training modules.
type TrainingRepo struct{ db *sql.DB }

func NewTrainingRepo(db *sql.DB) *TrainingRepo { return &TrainingRepo{db: db} }

// Create inserts a training module.
func (r *TrainingRepo) Create(ctx context.Context, m *model.TrainingModule) error {
	m.Title = strings.TrimSpace(m.Title)
	m.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO training_modules (title, description, url, created_at) VALUES (?,?,?,?)",
		m.Title, m.Description, strings.TrimSpace(m.URL), m.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListAll returns every training module ordered by title.
func (r *TrainingRepo) ListAll(ctx context.Context) ([]*model.TrainingModule, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, url, created_at FROM training_modules ORDER BY title, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.TrainingModule
	for rows.Next() {
		m := new(model.TrainingModule)
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.URL, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
