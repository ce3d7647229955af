package model

import (
    "strings"
    "time"
)

// TopicPrefix prefixes every per-course push topic.
const TopicPrefix = "course_"

// Notification is a message sent to everyone following a course.
type Notification struct {
    ID              string    `json:"id"`
    Title           string    `json:"title"`
    Message         string    `json:"message"`
    CourseID        string    `json:"courseId"`
    ClassInstanceID string    `json:"classInstanceId"`
    Timestamp       time.Time `json:"timestamp"`
}

// TopicSubscription records that a user follows a course topic.
type TopicSubscription struct {
    UserID    uint64    `json:"userId"`
    Topic     string    `json:"topic"`
    CreatedAt time.Time `json:"createdAt"`
}

// CourseTopic returns the push topic for a course, e.g. "course_42".
func CourseTopic(courseID string) string {
    return TopicPrefix + courseID
}

// CourseIDFromTopic is the inverse of CourseTopic.
func CourseIDFromTopic(topic string) (string, bool) {
    if !strings.HasPrefix(topic, TopicPrefix) || len(topic) == len(TopicPrefix) {
        return "", false
    }
    return strings.TrimPrefix(topic, TopicPrefix), true
}
