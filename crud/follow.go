package crud

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inkwell/domain"
	"inkwell/errs"
)

// FollowService manages the directed follow edges between users. It
// implements the domain.FollowService interface.
//
// Follow and Unfollow are idempotent: repeated calls converge on the
// same edge-existence state. A self-follow, a duplicate follow and an
// unfollow of a missing edge are deliberate no-ops, not errors.
type FollowService struct {
	followValidator
}

type followValidator struct {
	followGorm
}

type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

var _ domain.FollowService = &FollowService{}

// Follow creates the edge unless it would be a self-follow or already
// exists, and returns the follower's resulting edge count either way.
func (fv *followValidator) Follow(followerID, followedID int) (int, error) {
	if err := fv.followedUserExists(followedID); err != nil {
		return 0, err
	}
	if followerID == followedID {
		// Deliberate no-op.
		return fv.followGorm.CountFollowing(followerID)
	}
	return fv.followGorm.Follow(followerID, followedID)
}

// Unfollow removes the edge if it exists.
func (fv *followValidator) Unfollow(followerID, followedID int) error {
	if err := fv.followedUserExists(followedID); err != nil {
		return err
	}
	return fv.followGorm.Unfollow(followerID, followedID)
}

func (fv *followValidator) followedUserExists(followedID int) error {
	err := fv.db.First(&domain.User{}, "id = ?", followedID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
	return nil
}

// Follow inserts the edge with ON CONFLICT DO NOTHING, so of two
// simultaneous duplicate attempts exactly one row wins and the other
// observes the existing edge and no-ops.
func (fg *followGorm) Follow(followerID, followedID int) (int, error) {
	follow := domain.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
	}
	err := fg.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, err
	}
	return fg.CountFollowing(followerID)
}

// Unfollow deletes the edge. Zero affected rows means there was
// nothing to remove, which is fine.
func (fg *followGorm) Unfollow(followerID, followedID int) error {
	return fg.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&domain.Follow{}).Error
}

// CountFollowing returns how many authors the user follows.
func (fg *followGorm) CountFollowing(userID int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountFollowers returns how many readers follow the user.
func (fg *followGorm) CountFollowers(userID int) (int, error) {
	var count int64
	err := fg.db.Model(&domain.Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
