package domain

import "time"

// Follow is a directed edge from a reader to an author. The composite
// unique index makes duplicate edges unrepresentable, so concurrent
// duplicate-follow attempts settle with exactly one row.
type Follow struct {
	ID         int  `json:"id"`
	FollowerID int  `json:"-" gorm:"not null;uniqueIndex:idx_follower_followed"`
	Follower   User `json:"follower"`
	FollowedID int  `json:"-" gorm:"not null;uniqueIndex:idx_follower_followed"`
	Followed   User `json:"followed"`

	CreatedAt time.Time `json:"created_at"`
}

// FollowService manages follow edges. Follow and Unfollow are
// idempotent: a self-follow, an already existing edge, or an unfollow
// of a missing edge are silent no-ops, not errors.
type FollowService interface {
	// Follow creates the edge and returns the follower's resulting
	// edge count.
	Follow(followerID, followedID int) (int, error)
	Unfollow(followerID, followedID int) error
	CountFollowing(userID int) (int, error)
	CountFollowers(userID int) (int, error)
}
