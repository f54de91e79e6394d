package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"blog/internal/errors"
	"blog/internal/model"
)

// CurrentUserKey is the echo context key under which the bearer middleware
// stores the authenticated user ID.
const CurrentUserKey = "current_user_id"

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	ImageFile *string `json:"image_file"`
	ImagePath string  `json:"image_path"`
}

// PrivateUserResponse is returned to the user itself and on writes.
type PrivateUserResponse struct {
	UserResponse
	Email string `json:"email"`
}

// PostResponse represents a post together with its author.
type PostResponse struct {
	ID         uint         `json:"id"`
	Title      string       `json:"title"`
	Content    string       `json:"content"`
	UserID     uint         `json:"user_id"`
	DatePosted time.Time    `json:"date_posted"`
	Author     UserResponse `json:"author"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		ImageFile: u.ImageFile,
		ImagePath: u.ImagePath(),
	}
}

func newPrivateUserResponse(u *model.User) PrivateUserResponse {
	return PrivateUserResponse{UserResponse: newUserResponse(u), Email: u.Email}
}

func newPostResponse(p *model.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		UserID:     p.UserID,
		DatePosted: p.DatePosted,
		Author:     newUserResponse(&p.Author),
	}
}

func newPostResponses(posts []model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, newPostResponse(&posts[i]))
	}
	return out
}

// respondError converts a domain error into an echo.HTTPError carrying an
// errors.ErrorResponse.
func respondError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return &echo.HTTPError{
		Code:     httpErr.StatusCode,
		Message:  httpErr.ToErrorResponse(),
		Internal: err,
	}
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}

// bindAndValidate decodes the request into req and runs the registered
// validator on it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.NewValidationError("body", "malformed request body")
	}
	return c.Validate(req)
}
