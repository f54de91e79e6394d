package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	apperrors "blog/internal/errors"
	"blog/internal/handler"
	"blog/internal/logger"
	"blog/internal/model"
	"blog/internal/service"
)

const fetchTimeout = 30 * time.Second

// SeedFile is the document read by the seeder.
type SeedFile struct {
	Users []SeedUser `json:"users"`
}

// SeedUser is one account and the posts it authored.
type SeedUser struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Posts    []SeedPost `json:"posts"`
}

// SeedPost is one post of a SeedUser.
type SeedPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Stats summarises a seed run.
type Stats struct {
	UsersCreated int
	UsersSkipped int
	UsersInvalid int
	PostsCreated int
	PostsInvalid int
}

// loadSeed reads the seed document from a file or an http(s) URL.
func loadSeed(ctx context.Context, source string) (*SeedFile, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err := fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		r = body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, errors.Wrap(err, "open seed file")
		}
		r = f
	}
	defer r.Close()

	var data SeedFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(err, "parse seed data")
	}
	return &data, nil
}

func fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "build request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "fetch seed data")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, errors.Errorf("seed source returned status code %d", resp.StatusCode)
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

// seed creates every user and its posts. Users that already exist are
// skipped together with their posts, so running the seeder twice is safe.
// Entries the API would reject are logged and skipped.
func seed(ctx context.Context, users service.UserService, posts service.PostService, v echo.Validator, data *SeedFile, log *logger.Logger) (Stats, error) {
	var stats Stats
	for _, su := range data.Users {
		req := handler.CreateUserRequest{
			Username: su.Username,
			Email:    su.Email,
			Password: su.Password,
		}
		if err := v.Validate(&req); err != nil {
			log.Warnw("skipping invalid user", "username", su.Username, "reason", err.Error())
			stats.UsersInvalid++
			continue
		}

		user, err := users.CreateUser(ctx, service.CreateUserInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			if isConflict(err) {
				log.Infow("skipping existing user", "username", su.Username, "reason", err.Error())
				stats.UsersSkipped++
				continue
			}
			return stats, errors.Wrapf(err, "create user %q", su.Username)
		}
		stats.UsersCreated++

		if err := seedPosts(ctx, posts, v, user, su.Posts, &stats, log); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func seedPosts(ctx context.Context, posts service.PostService, v echo.Validator, author *model.User, items []SeedPost, stats *Stats, log *logger.Logger) error {
	for _, sp := range items {
		req := handler.PostRequest{
			Title:   sp.Title,
			Content: sp.Content,
			UserID:  author.ID,
		}
		if err := v.Validate(&req); err != nil {
			log.Warnw("skipping invalid post", "title", sp.Title, "username", author.Username, "reason", err.Error())
			stats.PostsInvalid++
			continue
		}

		if _, err := posts.CreatePost(ctx, service.PostInput{
			Title:   req.Title,
			Content: req.Content,
			UserID:  req.UserID,
		}); err != nil {
			return errors.Wrapf(err, "create post %q of %q", sp.Title, author.Username)
		}
		stats.PostsCreated++
	}
	return nil
}

func isConflict(err error) bool {
	return errors.Is(err, apperrors.ErrUsernameTaken) ||
		errors.Is(err, apperrors.ErrEmailTaken) ||
		errors.Is(err, apperrors.ErrUserConflict)
}
