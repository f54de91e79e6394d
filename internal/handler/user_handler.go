package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"blog/internal/service"
)

// UserHandler bundles the user HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest represents a registration payload.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,notblank,min=1,max=50"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72,maxbytes=72"`
}

// UpdateUserRequest represents a partial user update.
type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitnil,notblank,min=1,max=50"`
	Email     *string `json:"email" validate:"omitnil,email,max=50"`
	ImageFile *string `json:"image_file" validate:"omitnil,min=1,max=50"`
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User payload"
// @Success 201 {object} PrivateUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /user [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(err)
	}

	user, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, newPrivateUserResponse(user))
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateUser godoc
// @Summary Partially update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} PrivateUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /user/{id} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(err)
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), id, service.UpdateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		ImageFile: req.ImageFile,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// DeleteUser godoc
// @Summary Delete a user and all of its posts
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUserPosts godoc
// @Summary List the posts of a user, newest first
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} PostResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id}/posts [get]
func (h *UserHandler) ListUserPosts(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	posts, err := h.svc.ListUserPosts(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPostResponses(posts))
}
