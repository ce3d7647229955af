package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// EnrollmentRepo stores user enrollments against class instances.
type EnrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// Enroll reserves a place for userID in the class instance. The instance row
// is locked for the duration of the check so two concurrent enrollments
// cannot both take the last place.
func (r *EnrollmentRepo) Enroll(ctx context.Context, userID uint64, instanceID string) (*model.Enrollment, error) {
	e := &model.Enrollment{
		ID:              uuid.NewString(),
		UserID:          userID,
		ClassInstanceID: instanceID,
		EnrollmentDate:  time.Now().UTC().Truncate(time.Second),
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			cancelled bool
			capacity  int
		)
		err := tx.QueryRowContext(ctx, `
			SELECT ci.is_cancelled, c.capacity
			FROM class_instances ci
			JOIN courses c ON c.id = ci.course_id
			WHERE ci.id = ?
			FOR UPDATE`, instanceID).Scan(&cancelled, &capacity)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrClassInstanceNotFound
			}
			return err
		}
		if cancelled {
			return ErrClassCancelled
		}

		var taken, mine int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*), COALESCE(SUM(user_id = ?), 0)
			FROM enrollments WHERE class_instance_id = ?`, userID, instanceID).Scan(&taken, &mine); err != nil {
			return err
		}
		if mine > 0 {
			return ErrAlreadyEnrolled
		}
		if taken >= capacity {
			return ErrClassFull
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO enrollments (id, user_id, class_instance_id, enrollment_date, attended)
			VALUES (?, ?, ?, ?, ?)`, e.ID, e.UserID, e.ClassInstanceID, e.EnrollmentDate, false)
		if isDuplicate(err) {
			return ErrAlreadyEnrolled
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Cancel removes the user's enrollment in the class instance.
func (r *EnrollmentRepo) Cancel(ctx context.Context, userID uint64, instanceID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE user_id = ? AND class_instance_id = ?`, userID, instanceID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

// ListByUser returns the user's enrollments, newest first.
func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, class_instance_id, enrollment_date, attended
		FROM enrollments WHERE user_id = ?
		ORDER BY enrollment_date DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Enrollment{}
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.ClassInstanceID, &e.EnrollmentDate, &e.Attended); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByInstance returns how many places are taken in a class instance.
func (r *EnrollmentRepo) CountByInstance(ctx context.Context, instanceID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE class_instance_id = ?`, instanceID).Scan(&n)
	return n, err
}

// SetAttended flips the attended flag of an enrollment.
func (r *EnrollmentRepo) SetAttended(ctx context.Context, id string, attended bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE enrollments SET attended = ? WHERE id = ?`, attended, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}
