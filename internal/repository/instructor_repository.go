package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// InstructorRepo manages the instructors table.
type InstructorRepo struct {
	db *sql.DB
}

func NewInstructorRepo(db *sql.DB) *InstructorRepo { return &InstructorRepo{db: db} }

func (r *InstructorRepo) Create(ctx context.Context, in *model.Instructor) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO instructors (id, name, email, bio, certifications) VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.Name, in.Email, in.Bio, in.Certifications)
	return err
}

func (r *InstructorRepo) GetByID(ctx context.Context, id string) (*model.Instructor, error) {
	var in model.Instructor
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, bio, certifications FROM instructors WHERE id = ?`, id).
		Scan(&in.ID, &in.Name, &in.Email, &in.Bio, &in.Certifications)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInstructorNotFound
		}
		return nil, err
	}
	return &in, nil
}

// ListAll returns instructors ordered by name.
func (r *InstructorRepo) ListAll(ctx context.Context) ([]model.Instructor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, bio, certifications FROM instructors ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Instructor{}
	for rows.Next() {
		var in model.Instructor
		if err := rows.Scan(&in.ID, &in.Name, &in.Email, &in.Bio, &in.Certifications); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *InstructorRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM instructors`).Scan(&n)
	return n, err
}

func (r *InstructorRepo) Update(ctx context.Context, in *model.Instructor) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE instructors SET name = ?, email = ?, bio = ?, certifications = ? WHERE id = ?`,
		in.Name, in.Email, in.Bio, in.Certifications, in.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInstructorNotFound
	}
	return nil
}

func (r *InstructorRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM instructors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInstructorNotFound
	}
	return nil
}
