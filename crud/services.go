package crud

import (
	"gorm.io/gorm"

	"inkwell/domain"
	"inkwell/storage"
)

// A ServicesConfig is any function that takes in a pointer to a
// Services object and returns an error. It wraps the constructor of a
// crud service so main.go can assemble the container with functional
// options.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud
// services. The database-backed services share the connection provided
// by Services.
type Services struct {
	db      *gorm.DB
	User    *UserService
	Group   *GroupService
	Post    *PostService
	Comment *CommentService
	Follow  *FollowService
	Image   *storage.ImageService
}

// NewServices returns a new Services object, containing any crud
// services it's told to create by the passed in ServicesConfig
// functions.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithUser wraps the constructor of UserService. The feed cache is
// needed because deleting a user cascades post deletes.
func WithUser(cache domain.FeedCache) ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db, cache)
		return nil
	}
}

// WithGroup wraps the constructor of GroupService.
func WithGroup() ServicesConfig {
	return func(s *Services) error {
		s.Group = NewGroupService(s.db)
		return nil
	}
}

// WithPost wraps the constructor of PostService.
func WithPost(cache domain.FeedCache) ServicesConfig {
	return func(s *Services) error {
		s.Post = NewPostService(s.db, cache)
		return nil
	}
}

// WithComment wraps the constructor of CommentService.
func WithComment() ServicesConfig {
	return func(s *Services) error {
		s.Comment = NewCommentService(s.db)
		return nil
	}
}

// WithFollow wraps the constructor of FollowService.
func WithFollow() ServicesConfig {
	return func(s *Services) error {
		s.Follow = NewFollowService(s.db)
		return nil
	}
}

// WithImage wraps the constructor of storage.ImageService.
func WithImage() ServicesConfig {
	return func(s *Services) error {
		s.Image = storage.NewImageService()
		return nil
	}
}
