package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

const classInstanceColumns = `id, course_id, date, teacher_name, comments, is_cancelled`

// ClassInstanceRepo provides persistence for scheduled class instances. All
// dates are stored in UTC.
type ClassInstanceRepo struct {
	db *sql.DB
}

// NewClassInstanceRepo returns a ClassInstanceRepo bound to the given database.
func NewClassInstanceRepo(db *sql.DB) *ClassInstanceRepo { return &ClassInstanceRepo{db: db} }

func scanClassInstance(s rowScanner) (*model.ClassInstance, error) {
	var ci model.ClassInstance
	if err := s.Scan(&ci.ID, &ci.CourseID, &ci.Date, &ci.TeacherName, &ci.Comments, &ci.IsCancelled); err != nil {
		return nil, err
	}
	ci.Date = ci.Date.UTC()
	return &ci, nil
}

// lockCourseIDs reads a course's class_instance_ids with a row lock.
func lockCourseIDs(ctx context.Context, tx *sql.Tx, courseID string) ([]string, error) {
	var raw []byte
	if err := tx.QueryRowContext(ctx,
		`SELECT class_instance_ids FROM courses WHERE id = ? FOR UPDATE`, courseID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return decodeIDs(raw)
}

func storeCourseIDs(ctx context.Context, tx *sql.Tx, courseID string, ids []string) error {
	raw, err := encodeIDs(ids)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE courses SET class_instance_ids = ? WHERE id = ?`, raw, courseID)
	return err
}

// Create inserts a class instance and appends its ID to the parent course's
// class_instance_ids in the same transaction. ErrCourseNotFound is returned
// when the parent has disappeared.
func (r *ClassInstanceRepo) Create(ctx context.Context, ci *model.ClassInstance) error {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	ci.Date = ci.Date.UTC()
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ids, err := lockCourseIDs(ctx, tx, ci.CourseID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO class_instances (`+classInstanceColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			ci.ID, ci.CourseID, ci.Date, ci.TeacherName, ci.Comments, ci.IsCancelled); err != nil {
			return err
		}
		course := model.Course{ClassInstanceIDs: ids}
		course.AddClassInstanceID(ci.ID)
		return storeCourseIDs(ctx, tx, ci.CourseID, course.ClassInstanceIDs)
	})
}

// Update overwrites date, teacher, comments and the cancelled flag. The
// parent course of an instance never changes.
func (r *ClassInstanceRepo) Update(ctx context.Context, ci *model.ClassInstance) error {
	ci.Date = ci.Date.UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE class_instances SET date = ?, teacher_name = ?, comments = ?, is_cancelled = ? WHERE id = ?`,
		ci.Date, ci.TeacherName, ci.Comments, ci.IsCancelled, ci.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrClassInstanceNotFound
	}
	return nil
}

// GetByID fetches a class instance or returns ErrClassInstanceNotFound.
func (r *ClassInstanceRepo) GetByID(ctx context.Context, id string) (*model.ClassInstance, error) {
	ci, err := scanClassInstance(r.db.QueryRowContext(ctx,
		`SELECT `+classInstanceColumns+` FROM class_instances WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassInstanceNotFound
		}
		return nil, err
	}
	return ci, nil
}

// ListByCourse returns every instance of a course ordered by date.
func (r *ClassInstanceRepo) ListByCourse(ctx context.Context, courseID string) ([]model.ClassInstance, error) {
	return r.list(ctx, `SELECT `+classInstanceColumns+` FROM class_instances WHERE course_id = ? ORDER BY date, id`, courseID)
}

// ListUpcomingByCourse returns instances of a course dated at or after from.
func (r *ClassInstanceRepo) ListUpcomingByCourse(ctx context.Context, courseID string, from time.Time) ([]model.ClassInstance, error) {
	return r.list(ctx, `SELECT `+classInstanceColumns+` FROM class_instances
		WHERE course_id = ? AND date >= ? ORDER BY date, id`, courseID, from.UTC())
}

// SearchByTeacherPrefix returns instances whose teacher name starts with prefix.
func (r *ClassInstanceRepo) SearchByTeacherPrefix(ctx context.Context, prefix string) ([]model.ClassInstance, error) {
	return r.list(ctx, `SELECT `+classInstanceColumns+` FROM class_instances
		WHERE teacher_name LIKE ? ORDER BY teacher_name, date, id`, escapeLike(prefix)+"%")
}

// ListBetween returns instances dated within [from, to].
func (r *ClassInstanceRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.ClassInstance, error) {
	return r.list(ctx, `SELECT `+classInstanceColumns+` FROM class_instances
		WHERE date >= ? AND date <= ? ORDER BY date, id`, from.UTC(), to.UTC())
}

func (r *ClassInstanceRepo) list(ctx context.Context, q string, args ...any) ([]model.ClassInstance, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ClassInstance{}
	for rows.Next() {
		ci, err := scanClassInstance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ci)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a class instance and its enrollments. When the parent course
// still exists its class_instance_ids loses the ID in the same transaction;
// an orphaned instance is deleted on its own. The parent course ID is
// returned so callers can invalidate cached copies.
func (r *ClassInstanceRepo) Delete(ctx context.Context, id string) (string, error) {
	var courseID string
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT course_id FROM class_instances WHERE id = ? FOR UPDATE`, id).Scan(&courseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrClassInstanceNotFound
			}
			return err
		}
		ids, err := lockCourseIDs(ctx, tx, courseID)
		switch {
		case errors.Is(err, ErrCourseNotFound):
		case err != nil:
			return err
		default:
			course := model.Course{ClassInstanceIDs: ids}
			course.RemoveClassInstanceID(id)
			if err := storeCourseIDs(ctx, tx, courseID, course.ClassInstanceIDs); err != nil {
				return fmt.Errorf("unlink from course %s: %w", courseID, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE class_instance_id = ?`, id); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM class_instances WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return "", err
	}
	return courseID, nil
}
