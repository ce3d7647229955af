package model

import "time"

// Booking is the legacy booking shape used by the REST-style facade. It
// coexists with Enrollment and is never reconciled with it.
type Booking struct {
    ID          string    `json:"id"`
    UserEmail   string    `json:"userEmail"`
    ClassIDs    []string  `json:"classIds"`
    BookingDate time.Time `json:"bookingDate"`
    TotalAmount float64   `json:"totalAmount"`
}
