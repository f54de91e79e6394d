package service

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"blog/internal/auth"
	apperrors "blog/internal/errors"
	"blog/internal/model"
)

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (uint, error)
	CurrentUser(ctx context.Context, userID uint) (*model.User, error)
}

type authService struct {
	users  UserService
	tokens auth.TokenService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users UserService, tokens auth.TokenService) AuthService {
	return &authService{users: users, tokens: tokens}
}

// Login authenticates the credentials and issues an access token whose
// subject is the user ID.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(strconv.FormatUint(uint64(user.ID), 10), 0)
	if err != nil {
		return "", errors.Wrap(err, "issue access token")
	}
	return token, nil
}

// ParseToken verifies token and returns the user ID it was issued for.
func (s *authService) ParseToken(token string) (uint, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return 0, apperrors.ErrInvalidToken
	}
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.ErrInvalidToken
	}
	return uint(id), nil
}

// CurrentUser loads the user a verified token belongs to. A token whose user
// has since been deleted is treated as invalid.
func (s *authService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
