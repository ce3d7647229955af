package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// NotificationRepo keeps a record of every class notification sent.
type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create stores n, assigning its ID and timestamp when unset.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC().Truncate(time.Second)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, course_id, class_instance_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, n.ID, n.Title, n.Message, n.CourseID, n.ClassInstanceID, n.Timestamp)
	return err
}

// ListByCourse returns the notifications sent for a course, newest first.
func (r *NotificationRepo) ListByCourse(ctx context.Context, courseID string) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, message, course_id, class_instance_id, created_at
		FROM notifications WHERE course_id = ?
		ORDER BY created_at DESC, id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.CourseID, &n.ClassInstanceID, &n.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
