package model

import "time"

// Roles recognised by the auth layer. ADMIN manages the catalog; CUSTOMER
// enrolls, books and follows courses.
const (
    RoleAdmin    = "ADMIN"
    RoleCustomer = "CUSTOMER"
)

// User is a studio account. Emails are stored lower-cased and unique; the
// password is kept only as a bcrypt hash. Inactive users cannot log in.
type User struct {
    ID           uint64
    Email        string
    PasswordHash string
    Role         string
    IsActive     bool
    CreatedAt    time.Time
    UpdatedAt    time.Time
}
