package domain

import "time"

// Comment is an append-only reply to a post. There is no edit or
// delete operation; comments go away only when their post or author does.
type Comment struct {
	ID int `json:"id"`

	PostID int `json:"-" gorm:"not null;index"`

	AuthorID int  `json:"-" gorm:"not null;index"`
	Author   User `json:"author"`

	Text string `json:"text" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	Create(comment *Comment) error
	// ByPostID returns the post's thread oldest first, the one listing
	// that reads chronologically.
	ByPostID(postID int) ([]Comment, error)
}
