// Package queue defines the push message carried on the notifications
// exchange and the relay that turns those messages into notification lines.
package queue

import "time"

// PushNotification is the display part of a push message.
type PushNotification struct {
    Title string `json:"title"`
    Body  string `json:"body"`
}

// PushMessage is published with routing key Topic (course_<id>). Either part
// may be absent; Data conventionally carries "title" and "message".
type PushMessage struct {
    Topic        string            `json:"topic"`
    Notification *PushNotification `json:"notification,omitempty"`
    Data         map[string]string `json:"data,omitempty"`
    SentAt       time.Time         `json:"sent_at"`
}
