package service

import (
	"context"
	"time"

	apperrors "blog/internal/errors"
	"blog/internal/model"
	"blog/internal/repository"
)

// PostInput carries every writable field of a post.
type PostInput struct {
	Title   string
	Content string
	UserID  uint
}

// PatchPostInput carries a partial update. Nil fields are left untouched.
type PatchPostInput struct {
	Title   *string
	Content *string
}

// PostService exposes domain operations on posts.
type PostService interface {
	CreatePost(ctx context.Context, in PostInput) (*model.Post, error)
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	ListPosts(ctx context.Context, filter repository.PostFilter) ([]model.Post, error)
	ReplacePost(ctx context.Context, id uint, in PostInput) (*model.Post, error)
	PatchPost(ctx context.Context, id uint, in PatchPostInput) (*model.Post, error)
	DeletePost(ctx context.Context, id uint) error
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
	now   func() time.Time
}

// NewPostService builds a PostService.
func NewPostService(posts repository.PostRepository, users repository.UserRepository) PostService {
	return &postService{posts: posts, users: users, now: time.Now}
}

func (s *postService) ensureOwner(ctx context.Context, userID uint) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CreatePost stores a post dated now. The owner must exist.
func (s *postService) CreatePost(ctx context.Context, in PostInput) (*model.Post, error) {
	if err := s.ensureOwner(ctx, in.UserID); err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:      in.Title,
		Content:    in.Content,
		UserID:     in.UserID,
		DatePosted: s.now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, post.ID)
}

func (s *postService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *postService) ListPosts(ctx context.Context, filter repository.PostFilter) ([]model.Post, error) {
	return s.posts.List(ctx, filter)
}

// ReplacePost overwrites title, content and owner. Reassigning to another
// user requires that user to exist.
func (s *postService) ReplacePost(ctx context.Context, id uint, in PostInput) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.UserID != post.UserID {
		if err := s.ensureOwner(ctx, in.UserID); err != nil {
			return nil, err
		}
	}

	post.Title = in.Title
	post.Content = in.Content
	post.UserID = in.UserID
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.FindByID(ctx, id)
}

// PatchPost applies the supplied fields only.
func (s *postService) PatchPost(ctx context.Context, id uint, in PatchPostInput) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, id uint) error {
	return s.posts.Delete(ctx, id)
}
