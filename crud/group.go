package crud

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"inkwell/domain"
	"inkwell/errs"
)

// GroupService manages Groups. It implements the domain.GroupService
// interface.
type GroupService struct {
	groupValidator
}

type groupValidator struct {
	groupGorm
}

type groupGorm struct {
	db *gorm.DB
}

// NewGroupService returns an instance of GroupService.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{
		groupValidator{
			groupGorm{
				db: db,
			},
		},
	}
}

var _ domain.GroupService = &GroupService{}

// Create runs validations needed for creating new Group database records.
func (gv *groupValidator) Create(group *domain.Group) error {
	err := runGroupValFns(group,
		gv.titleRequired,
		gv.slugRequired,
		gv.slugNotTaken)
	if err != nil {
		return err
	}
	return gv.groupGorm.Create(group)
}

// Delete runs validations needed for deleting existing Group database records.
func (gv *groupValidator) Delete(group *domain.Group) error {
	err := runGroupValFns(group, gv.idValid)
	if err != nil {
		return err
	}
	return gv.groupGorm.Delete(group)
}

type groupValFn func(group *domain.Group) error

func runGroupValFns(group *domain.Group, fns ...groupValFn) error {
	for _, fn := range fns {
		if err := fn(group); err != nil {
			return err
		}
	}
	return nil
}

func (gv *groupValidator) idValid(group *domain.Group) error {
	if group.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Group ID is invalid.")
	}
	return nil
}

func (gv *groupValidator) titleRequired(group *domain.Group) error {
	if strings.TrimSpace(group.Title) == "" {
		return errs.Errorf(errs.EINVALID, "Group title must not be empty.")
	}
	return nil
}

func (gv *groupValidator) slugRequired(group *domain.Group) error {
	if strings.TrimSpace(group.Slug) == "" {
		return errs.Errorf(errs.EINVALID, "Group slug must not be empty.")
	}
	return nil
}

func (gv *groupValidator) slugNotTaken(group *domain.Group) error {
	err := gv.db.First(&domain.Group{}, "slug = ?", group.Slug).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "Group slug %s is already taken.", group.Slug)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// ByID retrieves a single Group by ID.
func (gg *groupGorm) ByID(id int) (*domain.Group, error) {
	var group domain.Group
	err := gg.db.First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The group does not exist.")
		}
		return nil, err
	}
	return &group, nil
}

// BySlug retrieves a single Group by its unique slug.
func (gg *groupGorm) BySlug(slug string) (*domain.Group, error) {
	var group domain.Group
	err := gg.db.First(&group, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The group does not exist.")
		}
		return nil, err
	}
	return &group, nil
}

// Create stores the data from the Group object in a new database
// record. The unique index on slug backs up the validator pre-check,
// so a racing duplicate surfaces as a conflict instead of a crash.
func (gg *groupGorm) Create(group *domain.Group) error {
	err := gg.db.Create(group).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "Group slug %s is already taken.", group.Slug)
	}
	return err
}

// Delete removes a Group record. Posts referencing the group survive:
// their group reference is cleared in the same transaction, never
// cascaded.
func (gg *groupGorm) Delete(group *domain.Group) error {
	return gg.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&domain.Post{}).Where("group_id = ?", group.ID).Update("group_id", nil).Error
		if err != nil {
			return err
		}
		res := tx.Delete(&domain.Group{}, group.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.Errorf(errs.ENOTFOUND, "The group does not exist.")
		}
		return nil
	})
}
