package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"andon-console/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.NVSEntry{}))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gormDB
}

func TestGormStore_GetMissingKey(t *testing.T) {
	s := NewGormStore(newSQLiteDB(t))

	_, err := s.Get(context.Background(), "nvs_calls")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))

	require.NoError(t, s.Set(ctx, "nvs_dept", "Assembly,1"))
	require.NoError(t, s.Set(ctx, "nvs_dept", "Paint,2"))

	value, err := s.Get(ctx, "nvs_dept")
	require.NoError(t, err)
	assert.Equal(t, "Paint,2", value)

	var count int64
	s.DB().Model(&model.NVSEntry{}).Where("key = ?", "nvs_dept").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGormStore_SeedIfMissing(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(newSQLiteDB(t))

	require.NoError(t, s.SeedIfMissing(ctx, "nvs_dept", " , "))
	value, err := s.Get(ctx, "nvs_dept")
	require.NoError(t, err)
	assert.Equal(t, " , ", value)

	require.NoError(t, s.Set(ctx, "nvs_dept", "Assembly,1"))
	require.NoError(t, s.SeedIfMissing(ctx, "nvs_dept", " , "))

	value, err = s.Get(ctx, "nvs_dept")
	require.NoError(t, err)
	assert.Equal(t, "Assembly,1", value, "seeding must not overwrite an existing value")
}

func TestGormStore_GetPropagatesDatabaseErrors(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "nvs_entries" WHERE .*namespace.*key`).
		WillReturnError(errors.New("disk unavailable"))

	_, err := s.Get(context.Background(), "nvs_calls")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "disk unavailable")

	assert.NoError(t, mock.ExpectationsWereMet())
}
