package domain

import "time"

// Group is a topical collection of posts. Groups are created by
// administrators and are immutable once created.
type Group struct {
	ID          int    `json:"id"`
	Title       string `json:"title" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`

	CreatedAt time.Time `json:"created_at"`
}

// GroupService is a set of methods to manipulate and work with the Group model.
type GroupService interface {
	ByID(id int) (*Group, error)
	BySlug(slug string) (*Group, error)
	Create(group *Group) error
	// Delete removes the group. Posts referencing it keep existing,
	// their group reference is cleared in the same transaction.
	Delete(group *Group) error
}
