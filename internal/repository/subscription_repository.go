package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// SubscriptionRepo records which users follow which course topics.
type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// Subscribe is idempotent: following a topic twice keeps one row.
func (r *SubscriptionRepo) Subscribe(ctx context.Context, userID uint64, topic string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO topic_subscriptions (user_id, topic) VALUES (?, ?)`, userID, topic)
	return err
}

// Unsubscribe is idempotent as well.
func (r *SubscriptionRepo) Unsubscribe(ctx context.Context, userID uint64, topic string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM topic_subscriptions WHERE user_id = ? AND topic = ?`, userID, topic)
	return err
}

func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.TopicSubscription, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, topic, created_at FROM topic_subscriptions WHERE user_id = ? ORDER BY topic`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.TopicSubscription{}
	for rows.Next() {
		var s model.TopicSubscription
		if err := rows.Scan(&s.UserID, &s.Topic, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
