package model

import "time"

// Course is a recurring weekly class offering. ClassInstanceIDs lists the
// scheduled occurrences whose CourseID equals this course's ID; it is kept in
// step with the class_instances table inside the same transaction as every
// instance insert or delete.
type Course struct {
    ID               string         `json:"id"`
    Name             string         `json:"name"`
    Type             string         `json:"type"`
    Description      string         `json:"description"`
    DayOfWeek        string         `json:"dayOfWeek"`
    Time             string         `json:"time"`     // time of day, "HH:MM"
    Capacity         int            `json:"capacity"`
    Duration         int            `json:"duration"` // minutes
    Price            float64        `json:"price"`
    ClassInstanceIDs []string       `json:"classInstanceIds"`
    AdditionalFields map[string]any `json:"additionalFields"`
    CreatedAt        time.Time      `json:"createdAt"`
    UpdatedAt        time.Time      `json:"updatedAt"`
}

// AddClassInstanceID appends id unless it is already listed.
func (c *Course) AddClassInstanceID(id string) {
    for _, existing := range c.ClassInstanceIDs {
        if existing == id {
            return
        }
    }
    c.ClassInstanceIDs = append(c.ClassInstanceIDs, id)
}

// RemoveClassInstanceID drops id from the list and reports whether it was present.
func (c *Course) RemoveClassInstanceID(id string) bool {
    for i, existing := range c.ClassInstanceIDs {
        if existing == id {
            c.ClassInstanceIDs = append(c.ClassInstanceIDs[:i], c.ClassInstanceIDs[i+1:]...)
            return true
        }
    }
    return false
}
