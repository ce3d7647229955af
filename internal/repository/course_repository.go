// Package repository contains data access logic separated from HTTP handlers.
// This file holds the course queries. A course owns its class instances:
// deleting one removes every instance (and the enrollments against them) in
// the same transaction.
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

const courseColumns = `id, name, type, description, day_of_week, time_of_day, capacity, duration,
	price, class_instance_ids, additional_fields, created_at, updated_at`

// CourseRepo encapsulates all database queries related to courses.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo constructs a CourseRepo with the provided DB handle.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

func scanCourse(s rowScanner) (*model.Course, error) {
	var (
		c           model.Course
		ids, fields []byte
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Type, &c.Description, &c.DayOfWeek, &c.Time,
		&c.Capacity, &c.Duration, &c.Price, &ids, &fields, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.ClassInstanceIDs, err = decodeIDs(ids); err != nil {
		return nil, fmt.Errorf("decode class_instance_ids of %s: %w", c.ID, err)
	}
	if c.AdditionalFields, err = decodeFields(fields); err != nil {
		return nil, fmt.Errorf("decode additional_fields of %s: %w", c.ID, err)
	}
	return &c, nil
}

// Create inserts a new course. The ID is generated here when empty, the way
// the document store assigned identifiers, and the timestamps are set.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	ids, err := encodeIDs(c.ClassInstanceIDs)
	if err != nil {
		return err
	}
	fields, err := encodeFields(c.AdditionalFields)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	const q = `INSERT INTO courses (` + courseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Type, c.Description, c.DayOfWeek, c.Time,
		c.Capacity, c.Duration, c.Price, ids, fields, now, now); err != nil {
		return err
	}
	if c.ClassInstanceIDs == nil {
		c.ClassInstanceIDs = []string{}
	}
	if c.AdditionalFields == nil {
		c.AdditionalFields = map[string]any{}
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return nil
}

// GetByID fetches a course by its ID. It returns ErrCourseNotFound if no row is found.
func (r *CourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListAll returns every course ordered by creation time.
func (r *CourseRepo) ListAll(ctx context.Context) ([]model.Course, error) {
	return r.list(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at, id`)
}

// ListByDay returns the courses configured for a weekday. The column uses a
// case-insensitive collation, so "monday" matches "Monday".
func (r *CourseRepo) ListByDay(ctx context.Context, day string) ([]model.Course, error) {
	return r.list(ctx, `SELECT `+courseColumns+` FROM courses WHERE day_of_week = ? ORDER BY time_of_day, id`, day)
}

// Count returns the number of stored courses.
func (r *CourseRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n)
	return n, err
}

func (r *CourseRepo) list(ctx context.Context, q string, args ...any) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites the editable fields of a course. ClassInstanceIDs is not
// written here; it only changes together with the class_instances table.
func (r *CourseRepo) Update(ctx context.Context, c *model.Course) error {
	fields, err := encodeFields(c.AdditionalFields)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	const q = `UPDATE courses
	           SET name = ?, type = ?, description = ?, day_of_week = ?, time_of_day = ?,
	               capacity = ?, duration = ?, price = ?, additional_fields = ?, updated_at = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Type, c.Description, c.DayOfWeek, c.Time,
		c.Capacity, c.Duration, c.Price, fields, now, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCourseNotFound
	}
	c.UpdatedAt = now
	return nil
}

// Delete removes a course together with its class instances and their
// enrollments in one transaction and returns how many instances went with it.
// A course without instances is deleted normally.
func (r *CourseRepo) Delete(ctx context.Context, id string) (int, error) {
	var removed int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM courses WHERE id = ? FOR UPDATE`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCourseNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE e FROM enrollments e
			 JOIN class_instances ci ON ci.id = e.class_instance_id
			 WHERE ci.course_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM class_instances WHERE course_id = ?`, id)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		removed = int(n)
		_, err = tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// DeleteAll wipes enrollments, class instances and courses atomically.
func (r *CourseRepo) DeleteAll(ctx context.Context) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM enrollments`,
			`DELETE FROM class_instances`,
			`DELETE FROM courses`,
		} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
}
