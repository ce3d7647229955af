package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// BookingRepo persists the legacy booking records.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create stores a booking, assigning its ID and booking date.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.UserEmail = strings.ToLower(strings.TrimSpace(b.UserEmail))
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now().UTC().Truncate(time.Second)
	}
	ids, err := encodeIDs(b.ClassIDs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO bookings (id, user_email, class_ids, booking_date, total_amount)
		VALUES (?, ?, ?, ?, ?)`, b.ID, b.UserEmail, ids, b.BookingDate, b.TotalAmount)
	return err
}

// ListByEmail returns every booking made with the given email address.
func (r *BookingRepo) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_email, class_ids, booking_date, total_amount
		FROM bookings WHERE user_email = ?
		ORDER BY booking_date DESC, id`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		var (
			b   model.Booking
			raw []byte
		)
		if err := rows.Scan(&b.ID, &b.UserEmail, &raw, &b.BookingDate, &b.TotalAmount); err != nil {
			return nil, err
		}
		if b.ClassIDs, err = decodeIDs(raw); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
