package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/domain"
	"inkwell/errs"
)

// CommentService manages the comment thread of a post. It implements
// the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

type commentValidator struct {
	commentGorm
}

type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

var _ domain.CommentService = &CommentService{}

// Create runs validations needed for creating new Comment database records.
func (cv *commentValidator) Create(comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.postExists,
		cv.authorIdValid,
		cv.textNotEmpty)
	if err != nil {
		return err
	}
	return cv.commentGorm.Create(comment)
}

type commentValFn func(comment *domain.Comment) error

func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

func (cv *commentValidator) authorIdValid(comment *domain.Comment) error {
	if comment.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Comment author is required.")
	}
	return nil
}

func (cv *commentValidator) postExists(comment *domain.Comment) error {
	err := cv.db.First(&domain.Post{}, "id = ?", comment.PostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return err
	}
	return nil
}

func (cv *commentValidator) textNotEmpty(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Comment text must not be empty.")
	}
	return nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(comment *domain.Comment) error {
	if err := cg.db.Create(comment).Error; err != nil {
		return err
	}
	return cg.db.Preload("Author").First(comment).Error
}

// ByPostID returns the post's comments oldest first, so the thread
// reads chronologically. A missing post is an error, not an empty
// thread.
func (cg *commentGorm) ByPostID(postID int) ([]domain.Comment, error) {
	err := cg.db.First(&domain.Post{}, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	var comments []domain.Comment
	err = cg.db.
		Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
