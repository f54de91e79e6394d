package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"blog/internal/model"
	"blog/internal/repository"
	"blog/internal/service"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	users service.UserService
	posts service.PostService
}

// NewPageHandler creates a new page handler.
func NewPageHandler(users service.UserService, posts service.PostService) *PageHandler {
	return &PageHandler{users: users, posts: posts}
}

// PostView is the template model of a post.
type PostView struct {
	ID          uint
	Title       string
	Content     string
	DatePosted  time.Time
	AuthorID    uint
	AuthorName  string
	AuthorImage string
}

// PageData is passed to every page template.
type PageData struct {
	Title string
	User  *UserResponse
	Posts []PostView
	Post  *PostView
}

func newPostView(p *model.Post) PostView {
	return PostView{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		DatePosted:  p.DatePosted,
		AuthorID:    p.UserID,
		AuthorName:  p.Author.Username,
		AuthorImage: p.Author.ImagePath(),
	}
}

func newPostViews(posts []model.Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for i := range posts {
		out = append(out, newPostView(&posts[i]))
	}
	return out
}

// Home renders every post, newest first.
func (h *PageHandler) Home(c echo.Context) error {
	posts, err := h.posts.ListPosts(c.Request().Context(), repository.PostFilter{})
	if err != nil {
		return respondError(err)
	}
	return c.Render(http.StatusOK, "home.html", PageData{Title: "Home", Posts: newPostViews(posts)})
}

// Post renders a single post.
func (h *PageHandler) Post(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	post, err := h.posts.GetPost(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	view := newPostView(post)
	return c.Render(http.StatusOK, "post.html", PageData{Title: post.Title, Post: &view})
}

// UserPosts renders the posts of one user. A user without posts gets an
// empty page rather than an error.
func (h *PageHandler) UserPosts(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(err)
	}
	ctx := c.Request().Context()

	user, err := h.users.GetUser(ctx, id)
	if err != nil {
		return respondError(err)
	}
	posts, err := h.posts.ListPosts(ctx, repository.PostFilter{UserID: &id})
	if err != nil {
		return respondError(err)
	}

	profile := newUserResponse(user)
	return c.Render(http.StatusOK, "user_posts.html", PageData{
		Title: "Posts by " + user.Username,
		User:  &profile,
		Posts: newPostViews(posts),
	})
}
