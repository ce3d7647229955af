package model

// Instructor is managed on its own; courses and class instances refer to
// teachers by name only.
type Instructor struct {
    ID             string `json:"id"`
    Name           string `json:"name"`
    Email          string `json:"email"`
    Bio            string `json:"bio"`
    Certifications string `json:"certifications"`
}
