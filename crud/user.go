package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/domain"
	"inkwell/errs"
)

// UserService manages User records provisioned from the external
// identity provider. It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
type userValidator struct {
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User
// data. It assumes that data has been validated.
type userGorm struct {
	db    *gorm.DB
	cache domain.FeedCache
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, cache domain.FeedCache) *UserService {
	return &UserService{
		userValidator{
			userGorm{
				db:    db,
				cache: cache,
			},
		},
	}
}

var _ domain.UserService = &UserService{}

// Create runs validations needed for creating new User database records.
func (uv *userValidator) Create(user *domain.User) error {
	err := runUserValFns(user,
		uv.usernameRequired,
		uv.usernameNotTaken)
	if err != nil {
		return err
	}
	return uv.userGorm.Create(user)
}

// Delete runs validations needed for deleting existing User database records.
func (uv *userValidator) Delete(user *domain.User) error {
	err := runUserValFns(user, uv.idValid)
	if err != nil {
		return err
	}
	return uv.userGorm.Delete(user)
}

type userValFn func(user *domain.User) error

func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

func (uv *userValidator) idValid(user *domain.User) error {
	if user.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is invalid.")
	}
	return nil
}

func (uv *userValidator) usernameRequired(user *domain.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return errs.Errorf(errs.EINVALID, "Username must not be empty.")
	}
	return nil
}

func (uv *userValidator) usernameNotTaken(user *domain.User) error {
	err := uv.db.First(&domain.User{}, "username = ?", user.Username).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "Username %s is already taken.", user.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// ByID retrieves a single User by ID.
func (ug *userGorm) ByID(id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// ByUsername retrieves a single User by username.
func (ug *userGorm) ByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := ug.db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(user *domain.User) error {
	err := ug.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "Username %s is already taken.", user.Username)
	}
	return err
}

// Delete removes a User record along with everything hanging off it:
// their posts, the comments on those posts, their own comments, and
// every follow edge they appear in. All of it happens in one
// transaction. The feed cache is cleared afterwards when posts went
// away with the user.
func (ug *userGorm) Delete(user *domain.User) error {
	var postIDs []int
	err := ug.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Post{}).Where("author_id = ?", user.ID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&domain.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).Delete(&domain.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", user.ID).Delete(&domain.Post{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.User{}, user.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(postIDs) > 0 {
		ug.cache.Clear()
	}
	return nil
}
