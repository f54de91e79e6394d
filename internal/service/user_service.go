package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"blog/internal/auth"
	"blog/internal/cache"
	apperrors "blog/internal/errors"
	"blog/internal/logger"
	"blog/internal/model"
	"blog/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// UpdateUserInput carries a partial update. Nil fields are left untouched.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	ImageFile *string
}

// UserService exposes domain operations on users.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	ListUserPosts(ctx context.Context, id uint) ([]model.Post, error)
}

type userService struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	hasher auth.PasswordHasher
	cache  *cache.Client
	log    *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService builds a UserService with repositories, hasher and cache.
func NewUserService(
	users repository.UserRepository,
	posts repository.PostRepository,
	hasher auth.PasswordHasher,
	cache *cache.Client,
	log *logger.Logger,
) UserService {
	return &userService{
		users:  users,
		posts:  posts,
		hasher: hasher,
		cache:  cache,
		log:    log,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CreateUser registers a user. Username and email are stored lowercase, so
// "Alice" and "alice" collide.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	user := &model.User{
		Username: normalize(in.Username),
		Email:    normalize(in.Email),
	}
	if user.Username == "" {
		return nil, apperrors.NewValidationError("username", "must not be blank")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperrors.NewValidationError("password", "must be at most 72 bytes")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user.PasswordHash = hash

	err = s.users.WithTransaction(ctx, func(repo repository.UserRepository) error {
		if err := ensureUnique(ctx, repo, 0, user.Username, user.Email); err != nil {
			return err
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// ensureUnique fails when username or email belongs to a user other than
// self. Empty values are not checked.
func ensureUnique(ctx context.Context, repo repository.UserRepository, self uint, username, email string) error {
	if username != "" {
		existing, err := repo.FindByUsername(ctx, username)
		taken, err := ownedByOther(self, existing, err)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrUsernameTaken
		}
	}
	if email != "" {
		existing, err := repo.FindByEmail(ctx, email)
		taken, err := ownedByOther(self, existing, err)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrEmailTaken
		}
	}
	return nil
}

func ownedByOther(self uint, existing *model.User, err error) (bool, error) {
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != self, nil
}

// Authenticate checks an email and password pair. An unknown email and a
// wrong password are indistinguishable to the caller, in result and in cost.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, normalize(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// dummy returns a valid hash that no real password is compared against.
func (s *userService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("blog-timing-equalizer")
		if err != nil {
			s.log.Warnw("dummy hash unavailable", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// GetUser reads through the cache.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, cache.UserKey(id), &cached) && cached.ID == id {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, cache.UserKey(id), user, userCacheTTL)
	return user, nil
}

// UpdateUser applies the supplied fields only. Changed usernames and emails
// are checked against other users before the write.
func (s *userService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	if in.Username != nil && normalize(*in.Username) == "" {
		return nil, apperrors.NewValidationError("username", "must not be blank")
	}

	var updated *model.User
	err := s.users.WithTransaction(ctx, func(repo repository.UserRepository) error {
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		var username, email string
		if in.Username != nil {
			username = normalize(*in.Username)
			user.Username = username
		}
		if in.Email != nil {
			email = normalize(*in.Email)
			user.Email = email
		}
		if in.ImageFile != nil {
			file := *in.ImageFile
			user.ImageFile = &file
		}

		if err := ensureUnique(ctx, repo, id, username, email); err != nil {
			return err
		}
		if err := repo.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cache.UserKey(id))
	return updated, nil
}

// DeleteUser removes the user and its posts.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, cache.UserKey(id))
	s.log.Infow("user deleted", "user_id", id)
	return nil
}

// ListUserPosts returns the posts of an existing user, newest first.
func (s *userService) ListUserPosts(ctx context.Context, id uint) ([]model.Post, error) {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}

	posts, err := s.posts.List(ctx, repository.PostFilter{UserID: &id})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, apperrors.ErrUserHasNoPosts
	}
	return posts, nil
}
