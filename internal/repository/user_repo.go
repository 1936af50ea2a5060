package repository

import (
	"context"

	"github.com/ehub-dev/learning-hub/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, username string) error

	GetOrCreateGroup(ctx context.Context, name string) (*model.Group, bool, error)
	ReplaceGroups(ctx context.Context, user *model.User, groups []model.Group) error
	ClearGroups(ctx context.Context, user *model.User) error

	FindTokenByKey(ctx context.Context, key string) (*model.AuthToken, error)
	FindTokenByUser(ctx context.Context, userID uuid.UUID) (*model.AuthToken, error)
	ReplaceToken(ctx context.Context, token *model.AuthToken) error
	DeleteTokenByKey(ctx context.Context, key string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Groups").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Groups").
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Preload("Groups").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Delete removes the user and everything hanging off it in one transaction:
// tokens, group memberships, enrollments. Owned courses are kept and their
// owner reference set to NULL so they stay manageable as orphans.
func (r *userRepository) Delete(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&model.AuthToken{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&model.CourseStudent{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Course{}).
			Where("user_id = ?", user.ID).
			Update("user_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&user).Association("Groups").Clear(); err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}

func (r *userRepository) GetOrCreateGroup(ctx context.Context, name string) (*model.Group, bool, error) {
	var group model.Group
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&group).Error
	if err == nil {
		return &group, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	group = model.Group{Name: name}
	if err := r.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, false, err
	}

	return &group, true, nil
}

func (r *userRepository) ReplaceGroups(ctx context.Context, user *model.User, groups []model.Group) error {
	refs := make([]*model.Group, 0, len(groups))
	for i := range groups {
		refs = append(refs, &groups[i])
	}
	return r.db.WithContext(ctx).Model(user).Association("Groups").Replace(refs)
}

func (r *userRepository) ClearGroups(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Model(user).Association("Groups").Clear()
}

func (r *userRepository) FindTokenByKey(ctx context.Context, key string) (*model.AuthToken, error) {
	var token model.AuthToken
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *userRepository) FindTokenByUser(ctx context.Context, userID uuid.UUID) (*model.AuthToken, error) {
	var token model.AuthToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error; err != nil {
		return nil, err
	}

	return &token, nil
}

// ReplaceToken swaps the user's single active token for the given one.
func (r *userRepository) ReplaceToken(ctx context.Context, token *model.AuthToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&model.AuthToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
}

func (r *userRepository) DeleteTokenByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&model.AuthToken{}, "key = ?", key).Error
}
