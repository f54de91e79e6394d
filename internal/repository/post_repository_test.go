package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "blog/internal/errors"
	"blog/internal/model"
)

var postColumns = []string{"id", "title", "content", "user_id", "date_posted"}

func TestPostRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec("INSERT INTO `posts`").
		WillReturnResult(sqlmock.NewResult(11, 1))

	post := &model.Post{Title: "Hello", Content: "World", UserID: 1, DatePosted: time.Now().UTC()}
	err := repo.Create(context.Background(), post)

	require.NoError(t, err)
	assert.Equal(t, uint(11), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CreateMissingOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec("INSERT INTO `posts`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails"})

	post := &model.Post{Title: "Hello", Content: "World", UserID: 404}
	err := repo.Create(context.Background(), post)

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Zero(t, post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FindByIDLoadsAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	posted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(2, "Title", "Body", 1, posted))
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "a@x.com", "alice", "hash", nil))

	post, err := repo.FindByID(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, "Title", post.Title)
	assert.Equal(t, posted, post.DatePosted)
	assert.Equal(t, "alice", post.Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(postColumns))

	post, err := repo.FindByID(context.Background(), 2)

	assert.Nil(t, post)
	assert.ErrorIs(t, err, apperrors.ErrPostNotFound)
}

func TestPostRepository_ListByOwnerNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	newer := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery("SELECT \\* FROM `posts` WHERE user_id = \\? ORDER BY date_posted DESC,id DESC").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(3, "Newer", "b", 1, newer).
			AddRow(2, "Older", "a", 1, older))
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "a@x.com", "alice", "hash", nil))

	owner := uint(1)
	posts, err := repo.List(context.Background(), PostFilter{UserID: &owner})

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Newer", posts[0].Title)
	assert.Equal(t, "alice", posts[1].Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateMissingOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec("UPDATE `posts` SET").
		WillReturnError(&mysqldriver.MySQLError{Number: 1452, Message: "foreign key constraint fails"})

	err := repo.Update(context.Background(), &model.Post{ID: 2, Title: "t", Content: "c", UserID: 404})

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec("DELETE FROM `posts` WHERE `posts`.`id` = \\?").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `posts` WHERE `posts`.`id` = \\?").
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 2))
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), apperrors.ErrPostNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
