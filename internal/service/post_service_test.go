package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "blog/internal/errors"
	"blog/internal/model"
	"blog/internal/repository"
)

func newTestPostService(posts *MockPostRepository, users *MockUserRepository, now time.Time) PostService {
	svc := NewPostService(posts, users).(*postService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	posts := new(MockPostRepository)
	users := new(MockUserRepository)
	svc := newTestPostService(posts, users, now)

	users.On("Exists", ctx, uint(1)).Return(true, nil)
	posts.On("Create", ctx, mock.MatchedBy(func(p *model.Post) bool {
		return p.Title == "Hello" && p.UserID == 1 && p.DatePosted.Equal(now) && p.DatePosted.Location() == time.UTC
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Post).ID = 9
	}).Return(nil)
	posts.On("FindByID", ctx, uint(9)).Return(&model.Post{
		ID: 9, Title: "Hello", UserID: 1, Author: model.User{ID: 1, Username: "alice"},
	}, nil)

	post, err := svc.CreatePost(ctx, PostInput{Title: "Hello", Content: "World", UserID: 1})

	require.NoError(t, err)
	assert.Equal(t, uint(9), post.ID)
	assert.Equal(t, "alice", post.Author.Username)
	posts.AssertExpectations(t)
}

func TestPostService_CreatePostMissingOwner(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	users := new(MockUserRepository)
	svc := newTestPostService(posts, users, time.Now())

	users.On("Exists", ctx, uint(404)).Return(false, nil)

	post, err := svc.CreatePost(ctx, PostInput{Title: "Hello", Content: "World", UserID: 404})

	assert.Nil(t, post)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostService_CreatePostOwnerDeletedConcurrently(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	users := new(MockUserRepository)
	svc := newTestPostService(posts, users, time.Now())

	users.On("Exists", ctx, uint(1)).Return(true, nil)
	posts.On("Create", ctx, mock.Anything).Return(apperrors.ErrUserNotFound)

	_, err := svc.CreatePost(ctx, PostInput{Title: "Hello", Content: "World", UserID: 1})

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	posts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPostService_ReplacePost(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		newOwner    uint
		ownerExists bool
		expectErr   error
	}{
		{name: "same owner", newOwner: 1},
		{name: "reassign to existing user", newOwner: 2, ownerExists: true},
		{name: "reassign to missing user", newOwner: 3, expectErr: apperrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := new(MockPostRepository)
			users := new(MockUserRepository)
			svc := newTestPostService(posts, users, time.Now())

			posts.On("FindByID", ctx, uint(5)).Return(&model.Post{ID: 5, Title: "old", Content: "old", UserID: 1}, nil)
			if tt.newOwner != 1 {
				users.On("Exists", ctx, tt.newOwner).Return(tt.ownerExists, nil)
			}
			if tt.expectErr == nil {
				posts.On("Update", ctx, mock.MatchedBy(func(p *model.Post) bool {
					return p.Title == "new" && p.Content == "body" && p.UserID == tt.newOwner
				})).Return(nil)
			}

			post, err := svc.ReplacePost(ctx, 5, PostInput{Title: "new", Content: "body", UserID: tt.newOwner})

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.newOwner, post.UserID)
			if tt.newOwner == 1 {
				users.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPostService_PatchPost(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	svc := newTestPostService(posts, new(MockUserRepository), time.Now())
	title := "patched"

	posts.On("FindByID", ctx, uint(5)).Return(&model.Post{ID: 5, Title: "old", Content: "keep", UserID: 1}, nil)
	posts.On("Update", ctx, mock.Anything).Return(nil)
	posts.On("FindByID", ctx, uint(6)).Return(nil, apperrors.ErrPostNotFound)

	post, err := svc.PatchPost(ctx, 5, PatchPostInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "patched", post.Title)
	assert.Equal(t, "keep", post.Content)

	_, err = svc.PatchPost(ctx, 6, PatchPostInput{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	svc := newTestPostService(posts, new(MockUserRepository), time.Now())

	posts.On("List", ctx, repository.PostFilter{}).Return([]model.Post{{ID: 2}, {ID: 1}}, nil)
	posts.On("Delete", ctx, uint(1)).Return(nil)
	posts.On("Delete", ctx, uint(9)).Return(apperrors.ErrPostNotFound)

	list, err := svc.ListPosts(ctx, repository.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.NoError(t, svc.DeletePost(ctx, 1))
	assert.ErrorIs(t, svc.DeletePost(ctx, 9), apperrors.ErrPostNotFound)
}
