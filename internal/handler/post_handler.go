package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"blog/internal/errors"
	"blog/internal/repository"
	"blog/internal/service"
)

// PostHandler bundles the post HTTP handlers.
type PostHandler struct {
	svc service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(svc service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// PostRequest represents a full post payload.
type PostRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=100"`
	Content string `json:"content" validate:"required,min=1"`
	UserID  uint   `json:"user_id" validate:"required"`
}

// PatchPostRequest represents a partial post update.
type PatchPostRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=100"`
	Content *string `json:"content" validate:"omitnil,min=1"`
}

func (r PostRequest) input() service.PostInput {
	return service.PostInput{Title: r.Title, Content: r.Content, UserID: r.UserID}
}

// ListPosts godoc
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Param user_id query int false "Only posts of this user"
// @Success 200 {array} PostResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /post [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	var filter repository.PostFilter
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return respondError(errors.NewValidationError("user_id", "must be a positive integer"))
		}
		owner := uint(id)
		filter.UserID = &owner
	}

	posts, err := h.svc.ListPosts(c.Request().Context(), filter)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPostResponses(posts))
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param post body PostRequest true "Post payload"
// @Success 201 {object} PostResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /post [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(err)
	}
	post, err := h.svc.CreatePost(c.Request().Context(), req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, newPostResponse(post))
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	post, err := h.svc.GetPost(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPostResponse(post))
}

// ReplacePost godoc
// @Summary Replace every field of a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body PostRequest true "Post payload"
// @Success 200 {object} PostResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /post/{id} [put]
func (h *PostHandler) ReplacePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(err)
	}
	post, err := h.svc.ReplacePost(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPostResponse(post))
}

// PatchPost godoc
// @Summary Update some fields of a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body PatchPostRequest true "Fields to change"
// @Success 200 {object} PostResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /post/{id} [patch]
func (h *PostHandler) PatchPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	var req PatchPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(err)
	}
	post, err := h.svc.PatchPost(c.Request().Context(), id, service.PatchPostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, newPostResponse(post))
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /post/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	if err := h.svc.DeletePost(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
