package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blog/internal/errors"
	"blog/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// TokenResponse is the OAuth2 password flow token response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login godoc
// @Summary Exchange email and password for an access token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email address"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /user/token [post]
func (h *AuthHandler) Login(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")

	var missing errors.ValidationError
	if email == "" {
		missing.Fields = append(missing.Fields, errors.FieldError{Field: "username", Message: "is required"})
	}
	if password == "" {
		missing.Fields = append(missing.Fields, errors.FieldError{Field: "password", Message: "is required"})
	}
	if len(missing.Fields) > 0 {
		return respondError(&missing)
	}

	token, err := h.authService.Login(c.Request().Context(), email, password)
	if err != nil {
		return respondError(err)
	}

	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PrivateUserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get(CurrentUserKey).(uint)
	if !ok {
		return respondError(errors.ErrInvalidToken)
	}
	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// ParseBearer is the echo-jwt ParseTokenFunc. The value it returns is stored
// under CurrentUserKey.
func (h *AuthHandler) ParseBearer(_ echo.Context, token string) (interface{}, error) {
	return h.authService.ParseToken(token)
}

// BearerError is the echo-jwt ErrorHandler. Missing, malformed and expired
// tokens all produce the same 401.
func (h *AuthHandler) BearerError(_ echo.Context, _ error) error {
	return respondError(errors.ErrInvalidToken)
}
