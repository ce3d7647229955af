package model

import "time"

// Enrollment is a user's reservation against a class instance.
type Enrollment struct {
    ID              string    `json:"id"`
    UserID          uint64    `json:"userId"`
    ClassInstanceID string    `json:"classInstanceId"`
    EnrollmentDate  time.Time `json:"enrollmentDate"`
    Attended        bool      `json:"attended"`
}
