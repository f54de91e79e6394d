package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "blog/internal/errors"
	"blog/internal/model"
)

// UserRepository defines persistence operations on users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	WithTransaction(ctx context.Context, fn func(repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user. A unique constraint violation is reported as
// ErrUserConflict regardless of what any earlier existence check saw.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	if err != nil {
		return translateUserError(err, "create user")
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

// Exists reports whether a user with id exists.
func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "count users")
	}
	return count > 0, nil
}

// Update writes the mutable columns of user.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(user).
		Select("Email", "Username", "ImageFile").
		Updates(user)
	if result.Error != nil {
		return translateUserError(result.Error, "update user")
	}
	return nil
}

// Delete removes the user and every post it owns.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return errors.Wrap(err, "delete user posts")
		}
		result := tx.Delete(&model.User{}, id)
		if result.Error != nil {
			return errors.Wrap(result.Error, "delete user")
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}

// WithTransaction executes fn within a database transaction. The transaction
// is rolled back when fn returns an error.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

func translateUserError(err error, op string) error {
	if isUniqueConstraintViolation(err) {
		return apperrors.ErrUserConflict
	}
	return errors.Wrap(err, op)
}
