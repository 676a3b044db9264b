package repository

import (
	"testing"
	"time"

	"forumhub/internal/cache"
	"forumhub/internal/database"
	"forumhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory sqlite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// setupMockDB returns a gorm handle over sqlmock using the postgres dialector.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

type fixtures struct {
	db       *gorm.DB
	users    UserRepository
	forums   ForumRepository
	comments CommentRepository
}

func newFixtures(t *testing.T, store *cache.Store) *fixtures {
	t.Helper()
	db := setupTestDB(t)
	return &fixtures{
		db:       db,
		users:    NewUserRepository(db),
		forums:   NewForumRepository(db, store),
		comments: NewCommentRepository(db, store),
	}
}

func (f *fixtures) user(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "hash", Name: email}
	require.NoError(t, f.users.Create(t.Context(), u))
	return u
}

func (f *fixtures) forum(t *testing.T, author *models.User, title string, createdAt time.Time) *models.Forum {
	t.Helper()
	forum := &models.Forum{Title: title, Description: "about " + title, Tags: []string{"go"}, AuthorID: author.ID, CreatedAt: createdAt}
	require.NoError(t, f.forums.Create(t.Context(), forum))
	return forum
}

func (f *fixtures) comment(t *testing.T, author *models.User, forum *models.Forum, content string, createdAt time.Time) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: content, AuthorID: author.ID, ForumID: forum.ID, CreatedAt: createdAt}
	require.NoError(t, f.comments.Create(t.Context(), c))
	return c
}
