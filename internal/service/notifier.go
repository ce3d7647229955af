package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/queue"
)

const cancelledTitle = "Class Cancelled"

// Notifier manages course topic subscriptions and sends class
// notifications: each one is stored in the notifications table and then
// published to the course topic.
type Notifier struct {
	catalog       *Catalog
	instances     ClassInstanceStore
	notifications NotificationStore
	subs          SubscriptionStore
	pub           Publisher
	log           zerolog.Logger
}

func NewNotifier(catalog *Catalog, instances ClassInstanceStore, notifications NotificationStore,
	subs SubscriptionStore, pub Publisher) *Notifier {
	return &Notifier{
		catalog:       catalog,
		instances:     instances,
		notifications: notifications,
		subs:          subs,
		pub:           pub,
		log:           logger.With("notifier"),
	}
}

// Subscribe follows a course's topic and returns the topic name.
func (n *Notifier) Subscribe(ctx context.Context, userID uint64, courseID string) (string, error) {
	if _, err := n.catalog.GetCourse(ctx, courseID); err != nil {
		return "", err
	}
	topic := model.CourseTopic(courseID)
	if err := n.subs.Subscribe(ctx, userID, topic); err != nil {
		return "", fmt.Errorf("subscribe: %w", err)
	}
	n.log.Debug().Uint64("user_id", userID).Str("topic", topic).Msg("subscribed")
	return topic, nil
}

func (n *Notifier) Unsubscribe(ctx context.Context, userID uint64, courseID string) error {
	topic := model.CourseTopic(courseID)
	if err := n.subs.Unsubscribe(ctx, userID, topic); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	n.log.Debug().Uint64("user_id", userID).Str("topic", topic).Msg("unsubscribed")
	return nil
}

func (n *Notifier) Subscriptions(ctx context.Context, userID uint64) ([]model.TopicSubscription, error) {
	return n.subs.ListByUser(ctx, userID)
}

// History returns the notifications sent for a course.
func (n *Notifier) History(ctx context.Context, courseID string) ([]model.Notification, error) {
	return n.notifications.ListByCourse(ctx, courseID)
}

// SendClassNotification notifies the followers of the instance's course. A
// failed publish is logged; the stored notification still counts as sent.
func (n *Notifier) SendClassNotification(ctx context.Context, instanceID, title, message string) (*model.Notification, error) {
	title, message = strings.TrimSpace(title), strings.TrimSpace(message)
	if title == "" || message == "" {
		return nil, fmt.Errorf("%w: title and message are required", ErrValidation)
	}
	ci, err := n.instances.GetByID(ctx, instanceID)
	if err != nil {
		return nil, translate(err)
	}
	return n.send(ctx, *ci, title, message)
}

func (n *Notifier) send(ctx context.Context, ci model.ClassInstance, title, message string) (*model.Notification, error) {
	note := &model.Notification{
		Title:           title,
		Message:         message,
		CourseID:        ci.CourseID,
		ClassInstanceID: ci.ID,
	}
	if err := n.notifications.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("store notification: %w", err)
	}

	// Data carries ids only: a title/message pair there would render as a
	// second notification.
	msg := queue.PushMessage{
		Topic:        model.CourseTopic(ci.CourseID),
		Notification: &queue.PushNotification{Title: title, Body: message},
		Data: map[string]string{
			"courseId":        ci.CourseID,
			"classInstanceId": ci.ID,
			"notificationId":  note.ID,
		},
		SentAt: note.Timestamp,
	}
	if n.pub != nil {
		if err := n.pub.Publish(ctx, msg); err != nil {
			n.log.Warn().Err(err).Str("notification_id", note.ID).Msg("push not delivered")
		}
	}
	n.log.Info().Str("topic", msg.Topic).Str("notification_id", note.ID).Msg("class notification sent")
	return note, nil
}

// ClassCancelled sends the standard cancellation notice for ci.
func (n *Notifier) ClassCancelled(ctx context.Context, ci model.ClassInstance) {
	loc := n.catalog.Location()
	message := fmt.Sprintf("The class scheduled for %s has been cancelled.",
		ci.Date.In(loc).Format("Monday, 2 January 2006 15:04"))
	if _, err := n.send(ctx, ci, cancelledTitle, message); err != nil {
		n.log.Error().Err(err).Str("instance_id", ci.ID).Msg("cancellation notice failed")
	}
}
