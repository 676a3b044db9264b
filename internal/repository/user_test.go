package repository

import (
	"context"
	"errors"
	"testing"

	"forumhub/internal/cache"
	"forumhub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	f := newFixtures(t, nil)
	ctx := context.Background()

	u := &models.User{Email: " Alice@Example.com ", Password: "hash", Name: "Alice"}
	require.NoError(t, f.users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	byEmail, err := f.users.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.Password)

	byID, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = f.users.GetByID(ctx, "missing")
	assertCode(t, err, models.CodeNotFound)
	_, err = f.users.GetByEmail(ctx, "nobody@example.com")
	assertCode(t, err, models.CodeNotFound)
}

func TestUserRepository_DuplicateEmailConflicts(t *testing.T) {
	f := newFixtures(t, nil)
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &models.User{Email: "a@x.com", Password: "h"}))
	err := f.users.Create(ctx, &models.User{Email: "A@x.com", Password: "h"})
	assertCode(t, err, models.CodeConflict)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserRepository_GetOrCreateIsIdempotent(t *testing.T) {
	f := newFixtures(t, nil)
	ctx := context.Background()

	first, err := f.users.GetOrCreate(ctx, &models.User{ID: "ext-1", Email: "ext@x.com", Name: "Ext"})
	require.NoError(t, err)
	second, err := f.users.GetOrCreate(ctx, &models.User{ID: "ext-1", Email: "ext@x.com", Name: "Changed"})
	require.NoError(t, err)

	assert.Equal(t, "ext-1", first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ext", second.Name)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", "ext-1").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserRepository_GetOrCreateEmailTaken(t *testing.T) {
	f := newFixtures(t, nil)
	ctx := context.Background()

	f.user(t, "taken@x.com")
	_, err := f.users.GetOrCreate(ctx, &models.User{ID: "other-id", Email: "taken@x.com"})
	assertCode(t, err, models.CodeConflict)
}

func TestUserRepository_GetByIDSeesDeletesWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newFixtures(t, cache.NewStore(rdb))
	ctx := context.Background()
	u := f.user(t, "gone@x.com")

	_, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, mr.Keys(), "users are never cached")

	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", u.ID).Update("name", "Renamed").Error)
	renamed, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	require.NoError(t, f.db.Where("id = ?", u.ID).Delete(&models.User{}).Error)
	_, err = f.users.GetByID(ctx, u.ID)
	assertCode(t, err, models.CodeNotFound)
}

func TestUserRepository_GetByIDDatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), "u1")
	assertCode(t, err, models.CodeInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, isForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(nil))
}
