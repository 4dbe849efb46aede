package domain

import "time"

type Post struct {
	ID   int    `json:"id"`
	Text string `json:"text" gorm:"not null"`

	AuthorID int  `json:"-" gorm:"not null;index"`
	Author   User `json:"author"`

	// GroupID is a pointer so a post without a group stores NULL,
	// and clearing the reference on group delete is representable.
	GroupID *int   `json:"-" gorm:"index"`
	Group   *Group `json:"group,omitempty"`

	// Image holds the media storage reference string, never the bytes.
	Image string `json:"image,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// PostUpdate holds the author-editable fields. Nil means "leave as is";
// a non-nil GroupID pointing at nil clears the group.
type PostUpdate struct {
	Text    *string `json:"text"`
	GroupID **int   `json:"-"`
	Image   *string `json:"-"`
}

// PostService is a set of methods to manipulate and work with the Post
// model. The By* methods are the feed query surface: each returns the
// candidate sequence for one listing context, ordered newest first
// (created_at descending, ties broken by id descending).
type PostService interface {
	ByID(id int) (*Post, error)
	// Index returns every post, for the global feed.
	Index() ([]Post, error)
	ByGroupID(groupID int) ([]Post, error)
	ByAuthorID(authorID int) ([]Post, error)
	// ByFollowed returns the posts of every author the viewer follows,
	// an empty slice when the viewer follows nobody.
	ByFollowed(viewerID int) ([]Post, error)
	Create(post *Post) error
	Update(post *Post, upd *PostUpdate) error
	Delete(post *Post) error
}
