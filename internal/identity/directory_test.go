package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client
}

// runDirectoryContract roda o mesmo comportamento contra qualquer diretório
// já semeado com SeedUsers.
func runDirectoryContract(t *testing.T, newDir func(t *testing.T) Directory) {
	ctx := context.Background()

	t.Run("seed users are found by email and id", func(t *testing.T) {
		dir := newDir(t)

		admin, err := dir.FindByEmail(ctx, " ADMIN@catoia.com")
		require.NoError(t, err)
		assert.Equal(t, "1", admin.ID)
		assert.Equal(t, RoleAdmin, admin.Role)

		client, err := dir.FindByID(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, "cliente@email.com", client.Email)
		assert.Equal(t, RoleClient, client.Role)
	})

	t.Run("create keeps the password hash", func(t *testing.T) {
		dir := newDir(t)

		u := &User{ID: uuid.NewString(), Email: "Novo@Email.com", Role: RoleClient, PasswordHash: "hash"}
		require.NoError(t, dir.Create(ctx, u))
		assert.Equal(t, "novo@email.com", u.Email)

		got, err := dir.FindByEmail(ctx, "novo@email.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dir := newDir(t)

		err := dir.Create(ctx, &User{ID: uuid.NewString(), Email: "cliente@email.com", Role: RoleClient})
		assert.True(t, httperr.IsBusiness(err, "email_already_exists"))
	})

	t.Run("unknown user", func(t *testing.T) {
		dir := newDir(t)

		_, err := dir.FindByEmail(ctx, "ninguem@email.com")
		assert.True(t, httperr.IsBusiness(err, "user_not_found"))
		_, err = dir.FindByID(ctx, "999")
		assert.True(t, httperr.IsBusiness(err, "user_not_found"))
	})
}

func TestMemoryDirectory(t *testing.T) {
	runDirectoryContract(t, func(t *testing.T) Directory {
		return NewMemoryDirectory(SeedUsers...)
	})
}

func TestGormDirectory(t *testing.T) {
	runDirectoryContract(t, func(t *testing.T) Directory {
		dir := NewGormDirectory(openTestDB(t))
		require.NoError(t, dir.Seed(context.Background(), SeedUsers...))
		return dir
	})
}

func TestRedisDirectory(t *testing.T) {
	runDirectoryContract(t, func(t *testing.T) Directory {
		dir := NewRedisDirectory(setupTestRedis(t))
		require.NoError(t, dir.Seed(context.Background(), SeedUsers...))
		return dir
	})
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()

	gormDir := NewGormDirectory(openTestDB(t))
	require.NoError(t, gormDir.Seed(ctx, SeedUsers...))
	require.NoError(t, gormDir.Seed(ctx, SeedUsers...))

	redisDir := NewRedisDirectory(setupTestRedis(t))
	require.NoError(t, redisDir.Seed(ctx, SeedUsers...))
	require.NoError(t, redisDir.Seed(ctx, SeedUsers...))

	for _, dir := range []Directory{gormDir, redisDir} {
		u, err := dir.FindByEmail(ctx, "admin@catoia.com")
		require.NoError(t, err)
		assert.Equal(t, "1", u.ID)
	}
}

// usuários cadastrados sobrevivem a uma nova instância do diretório
func TestGormDirectoryPersistsSignUp(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	svc := NewService(NewGormDirectory(db))
	u, err := svc.SignUp(ctx, "novo@email.com", "segredo123")
	require.NoError(t, err)

	again := NewService(NewGormDirectory(db))
	got, err := again.SignIn(ctx, "novo@email.com", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}
