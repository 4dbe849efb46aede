package domain

import "time"

// User mirrors an identity owned by the external identity provider.
// Records are provisioned and deleted through the admin endpoints and
// are never mutated by this core.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Name     string `json:"name"`
	Admin    bool   `json:"admin"`

	CreatedAt time.Time `json:"created_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(id int) (*User, error)
	ByUsername(username string) (*User, error)
	Create(user *User) error
	// Delete removes the user and, in the same transaction, their
	// posts, the comments on those posts, their own comments, and
	// every follow edge touching them.
	Delete(user *User) error
}
