package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "blog/internal/errors"
	"blog/internal/model"
)

// PostFilter narrows List. A nil UserID lists every post.
type PostFilter struct {
	UserID *uint
}

// PostRepository defines persistence operations on posts. Every read loads
// the author explicitly.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, filter PostFilter) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts post. A missing owner surfaces as ErrUserNotFound through the
// foreign key.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
	if err != nil {
		return translatePostError(err, "create post")
	}
	return nil
}

// FindByID finds a post by ID together with its author.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, errors.Wrap(err, "find post")
	}
	return &post, nil
}

// List returns posts newest first.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]model.Post, error) {
	query := r.db.WithContext(ctx).Preload("Author")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var posts []model.Post
	if err := query.Order("date_posted DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return posts, nil
}

// Update writes title, content and owner of post.
func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	result := r.db.WithContext(ctx).Model(post).
		Omit(clause.Associations).
		Select("Title", "Content", "UserID").
		Updates(post)
	if result.Error != nil {
		return translatePostError(result.Error, "update post")
	}
	return nil
}

// Delete removes a post.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Post{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "delete post")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

func translatePostError(err error, op string) error {
	if isForeignKeyConstraintViolation(err) {
		return apperrors.ErrUserNotFound
	}
	return errors.Wrap(err, op)
}
