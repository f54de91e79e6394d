package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "blog/internal/errors"
)

// DefaultAccessTokenTTL is used when no ttl is configured.
const DefaultAccessTokenTTL = 30 * time.Minute

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Verify(token string) (string, error)
}

// JWTService handles JWT token generation and validation. It is immutable
// after construction.
type JWTService struct {
	secret     []byte
	method     jwt.SigningMethod
	defaultTTL time.Duration
	now        func() time.Time
}

var _ TokenService = (*JWTService)(nil)

// NewJWTService creates a new JWT service. The algorithm must be one of the
// HMAC family (HS256, HS384, HS512).
func NewJWTService(secret, algorithm string, defaultTTL time.Duration) (*JWTService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultAccessTokenTTL
	}
	return &JWTService{
		secret:     []byte(secret),
		method:     method,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}, nil
}

// Issue generates a token for subject that expires after ttl. A non-positive
// ttl means the configured default.
func (s *JWTService) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return token, nil
}

// Verify checks signature, algorithm, expiry and required claims and returns
// the subject. Every failure is reported as ErrInvalidToken.
func (s *JWTService) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return "", apperrors.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}
	return claims.Subject, nil
}
