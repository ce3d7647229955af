package model

import "time"

// ClassInstance is one concrete scheduled occurrence of a course.
type ClassInstance struct {
    ID          string    `json:"id"`
    CourseID    string    `json:"courseId"`
    Date        time.Time `json:"date"`
    TeacherName string    `json:"teacherName"`
    Comments    string    `json:"comments,omitempty"`
    IsCancelled bool      `json:"isCancelled"`
}
