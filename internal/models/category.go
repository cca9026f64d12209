package models

import (
	"time"

	"github.com/google/uuid"
)

// Category carries optional protection metadata for a category name. The
// password is a shared access code handed out by the admin, compared with
// plain equality: it is deliberately not hashed, unlike account passwords,
// so the admin can always see and re-share the current code. A category
// name with no row here is open to any logged-in student.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) Protected() bool {
	return c.Password != ""
}
