package user

import (
	"Streamora-Backend/domain"
	"Streamora-Backend/entities"
	"Streamora-Backend/pkg/jwt"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestService(t *testing.T) UserService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entities.User{}))

	return NewUserService(NewUserRepository(db), jwt.NewJWTService())
}

func TestRegisterAndLogin(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	res, err := service.Register(ctx, domain.RegisterRequest{
		Name:     "Budi",
		Email:    " Budi@Example.com ",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", res.Email)
	assert.Equal(t, domain.RoleUser, res.Role)

	login, err := service.Login(ctx, domain.LoginRequest{
		Email:    "budi@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, domain.RoleUser, login.Role)

	me, err := service.Me(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", me.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, domain.RegisterRequest{
		Name: "Budi", Email: "budi@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = service.Register(ctx, domain.RegisterRequest{
		Name: "Impostor", Email: "BUDI@example.com", Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLoginInvalidCredentials(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, domain.RegisterRequest{
		Name: "Budi", Email: "budi@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email: "budi@example.com", Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email: "nobody@example.com", Password: "supersecret",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestMeUnknownUser(t *testing.T) {
	service := setupTestService(t)

	_, err := service.Me(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = service.Me(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
