package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/shopzone/shopzone-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	activityRepo := repository.NewActivityLogRepository(testDB)
	activitySvc := NewSyncActivityService(activityRepo)
	authService := NewAuthService(userRepo, activitySvc, testJWTSecret, time.Hour)

	return authService, testDB
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user, token, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, token)

	claims, err := util.ValidateToken(token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	var entry model.ActivityLog
	require.NoError(t, testDB.Where("action = ?", model.ActionRegister).First(&entry).Error)
	assert.Equal(t, user.ID, entry.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, token, err := authService.Register("bob", "alice@example.com", "password456")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, token, err := authService.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, token, err := authService.Login("alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, user)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	registered, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	testDB.Model(&model.User{}).Where("id = ?", registered.ID).Update("is_active", false)

	user, _, err := authService.Login("alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
	assert.Nil(t, user)
}

func TestAuthService_Logout_InvalidTokenIgnored(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	// Revoking garbage must not fail the request
	assert.NoError(t, authService.Logout(context.Background(), "not-a-token"))
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, authService.ChangePassword(registered.ID, "password123", "newpassword1"))

	_, _, err = authService.Login("alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("alice@example.com", "newpassword1")
	assert.NoError(t, err)
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	registered, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	err = authService.ChangePassword(registered.ID, "badold", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)
}

func TestAuthService_Register_BootstrapsProfile(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	var profile model.Profile
	require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "alice", profile.FirstName)
}

func TestInitialFirstName(t *testing.T) {
	assert.Equal(t, "carol", initialFirstName("carol", "x@example.com"))
	assert.Equal(t, "bob", initialFirstName("", "bob@example.com"))
	assert.Equal(t, "plain", initialFirstName("", "plain"))
}
