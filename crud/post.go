package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/domain"
	"inkwell/errs"
)

// PostService manages Posts and is the query surface behind every feed
// context. It implements the domain.PostService interface.
type PostService struct {
	postValidator
}

// postValidator runs validations on incoming Post data.
// On success, it passes the data on to postGorm.
type postValidator struct {
	postGorm
}

// postGorm runs CRUD operations on the database using incoming Post
// data. It assumes that data has been validated. It clears the feed
// cache on create and delete, the only two mutations the cache
// contract names.
type postGorm struct {
	db    *gorm.DB
	cache domain.FeedCache
}

// NewPostService returns an instance of PostService.
func NewPostService(db *gorm.DB, cache domain.FeedCache) *PostService {
	return &PostService{
		postValidator{
			postGorm{
				db:    db,
				cache: cache,
			},
		},
	}
}

var _ domain.PostService = &PostService{}

// Create runs validations needed for creating new Post database records.
func (pv *postValidator) Create(post *domain.Post) error {
	err := runPostValFns(post,
		pv.authorIdValid,
		pv.textNotEmpty,
		pv.groupExists)
	if err != nil {
		return err
	}
	return pv.postGorm.Create(post)
}

// Update runs validations needed for editing existing Post database records.
func (pv *postValidator) Update(post *domain.Post, upd *domain.PostUpdate) error {
	if err := pv.idValid(post); err != nil {
		return err
	}
	if upd.Text != nil && strings.TrimSpace(*upd.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Post text must not be empty.")
	}
	if upd.GroupID != nil && *upd.GroupID != nil {
		if err := pv.groupIdExists(**upd.GroupID); err != nil {
			return err
		}
	}
	return pv.postGorm.Update(post, upd)
}

// Delete runs validations needed for deleting existing Post database records.
func (pv *postValidator) Delete(post *domain.Post) error {
	err := runPostValFns(post, pv.idValid)
	if err != nil {
		return err
	}
	return pv.postGorm.Delete(post)
}

type postValFn = func(post *domain.Post) error

func runPostValFns(post *domain.Post, fns ...postValFn) error {
	for _, fn := range fns {
		if err := fn(post); err != nil {
			return err
		}
	}
	return nil
}

func (pv *postValidator) authorIdValid(post *domain.Post) error {
	if post.AuthorID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post author is required.")
	}
	return nil
}

func (pv *postValidator) idValid(post *domain.Post) error {
	if post.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Post ID is invalid.")
	}
	return nil
}

func (pv *postValidator) textNotEmpty(post *domain.Post) error {
	if strings.TrimSpace(post.Text) == "" {
		return errs.Errorf(errs.EINVALID, "Post text must not be empty.")
	}
	return nil
}

func (pv *postValidator) groupExists(post *domain.Post) error {
	if post.GroupID == nil {
		return nil
	}
	return pv.groupIdExists(*post.GroupID)
}

func (pv *postValidator) groupIdExists(groupID int) error {
	err := pv.db.First(&domain.Group{}, "id = ?", groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The group does not exist.")
		}
		return err
	}
	return nil
}

// feedOrder is the ordering shared by every listing context: newest
// first, ties broken by id so the sequence is deterministic.
const feedOrder = "created_at DESC, id DESC"

// ByID retrieves a single Post by ID, along with its author and group.
func (pg *postGorm) ByID(id int) (*domain.Post, error) {
	var post domain.Post
	err := pg.db.
		Preload("Author").
		Preload("Group").
		First(&post, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil, err
	}
	return &post, nil
}

// Index returns every post, newest first. This is the global feed's
// candidate sequence.
func (pg *postGorm) Index() ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByGroupID returns the posts assigned to one group, newest first.
func (pg *postGorm) ByGroupID(groupID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Where("group_id = ?", groupID).
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByAuthorID returns one author's posts, newest first.
func (pg *postGorm) ByAuthorID(authorID int) ([]domain.Post, error) {
	var posts []domain.Post
	err := pg.db.
		Where("author_id = ?", authorID).
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// ByFollowed returns the posts of every author the viewer follows,
// newest first. A viewer who follows nobody gets an empty slice, not
// an error.
func (pg *postGorm) ByFollowed(viewerID int) ([]domain.Post, error) {
	followed := pg.db.
		Model(&domain.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", viewerID)
	var posts []domain.Post
	err := pg.db.
		Where("author_id IN (?)", followed).
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores the data from the Post object in a new database record
// and clears the feed cache.
func (pg *postGorm) Create(post *domain.Post) error {
	if err := pg.db.Create(post).Error; err != nil {
		return err
	}
	if err := pg.db.Preload("Author").Preload("Group").First(post).Error; err != nil {
		return err
	}
	pg.cache.Clear()
	return nil
}

// Update applies the editable fields to an existing Post record.
// Editing does not clear the feed cache; only create and delete do.
func (pg *postGorm) Update(post *domain.Post, upd *domain.PostUpdate) error {
	updates := map[string]interface{}{}
	if upd.Text != nil {
		updates["text"] = *upd.Text
	}
	if upd.GroupID != nil {
		updates["group_id"] = *upd.GroupID
	}
	if upd.Image != nil {
		updates["image"] = *upd.Image
	}
	if len(updates) == 0 {
		return nil
	}
	if err := pg.db.Model(post).Updates(updates).Error; err != nil {
		return err
	}
	return pg.db.Preload("Author").Preload("Group").First(post, "id = ?", post.ID).Error
}

// Delete removes a Post record together with its comments in one
// transaction, then clears the feed cache.
func (pg *postGorm) Delete(post *domain.Post) error {
	err := pg.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Post{}, post.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
		}
		return nil
	})
	if err != nil {
		return err
	}
	pg.cache.Clear()
	return nil
}
