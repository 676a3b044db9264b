package seed

import (
	"testing"
	"time"

	"forumhub/internal/auth"
	"forumhub/internal/database"
	"forumhub/internal/models"
	"forumhub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)

	summary, err := Seed(db, Options{
		NumUsers:    3,
		NumForums:   5,
		NumComments: 12,
		Factory:     SeedOptions{FastHash: true, MaxDays: 7},
	})
	require.NoError(t, err)

	assert.Len(t, summary.Users, 3)
	assert.Len(t, summary.Forums, 5)
	assert.Equal(t, 12, summary.Comments)
	assert.EqualValues(t, 3, count(t, db, &models.User{}))
	assert.EqualValues(t, 5, count(t, db, &models.Forum{}))
	assert.EqualValues(t, 12, count(t, db, &models.Comment{}))

	assert.True(t, auth.CheckPassword(summary.Users[0].Password, DefaultPassword))
	for _, f := range summary.Forums {
		assert.NotNil(t, f.Tags)
		assert.True(t, f.CreatedAt.After(time.Now().Add(-8*24*time.Hour)))
	}
}

func TestSeedClean(t *testing.T) {
	db := setupTestDB(t)
	opts := Options{NumUsers: 2, NumForums: 2, NumComments: 3, Factory: SeedOptions{FastHash: true}}

	_, err := Seed(db, opts)
	require.NoError(t, err)

	opts.ShouldClean = true
	_, err = Seed(db, opts)
	require.NoError(t, err)

	assert.EqualValues(t, 2, count(t, db, &models.User{}))
	assert.EqualValues(t, 3, count(t, db, &models.Comment{}))
}

func TestSeedDryRunWritesNothing(t *testing.T) {
	db := setupTestDB(t)

	summary, err := Seed(db, Options{
		NumUsers:    2,
		NumForums:   2,
		NumComments: 4,
		Factory:     SeedOptions{DryRun: true, FastHash: true},
	})
	require.NoError(t, err)

	for _, f := range summary.Forums {
		assert.NotEmpty(t, f.ID)
	}
	assert.Zero(t, count(t, db, &models.User{}))
	assert.Zero(t, count(t, db, &models.Forum{}))
}

func TestSeedRejectsImpossibleCounts(t *testing.T) {
	db := setupTestDB(t)

	_, err := Seed(db, Options{NumForums: 1})
	assert.Error(t, err)

	_, err = Seed(db, Options{NumUsers: 1, NumComments: 1, Factory: SeedOptions{FastHash: true}})
	assert.Error(t, err)
}

func TestBuildCommentIsAfterForum(t *testing.T) {
	f := NewFactory(nil, SeedOptions{MaxDays: 30})
	author := &models.User{ID: "u1"}
	forum := f.BuildForum(author, func(fm *models.Forum) { fm.ID = "f1" })

	for i := 0; i < 20; i++ {
		c := f.BuildComment(author, forum)
		assert.False(t, c.CreatedAt.Before(forum.CreatedAt))
		assert.Equal(t, "f1", c.ForumID)
		assert.NotEmpty(t, c.Content)
	}
}

func TestClearAllRevokesOutstandingTokens(t *testing.T) {
	db := setupTestDB(t)

	tokens, err := auth.NewTokenService("seed-test-secret-0123456789abcdef")
	require.NoError(t, err)
	authn := auth.NewAuthenticator(repository.NewUserRepository(db), tokens)

	summary, err := Seed(db, Options{NumUsers: 1, Factory: SeedOptions{FastHash: true}})
	require.NoError(t, err)
	user := summary.Users[0]
	token, err := tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)

	ctx := t.Context()
	identity, err := authn.Verify(ctx, auth.TokenCredentials{Token: token})
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)

	require.NoError(t, ClearAll(db))

	_, err = authn.Verify(ctx, auth.TokenCredentials{Token: token})
	assert.ErrorIs(t, err, auth.ErrUnknownSubject)
}
