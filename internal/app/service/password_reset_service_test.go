package service

import (
	"testing"
	"time"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPasswordResetTest(t *testing.T) (PasswordResetService, AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)
	activityRepo := repository.NewActivityLogRepository(testDB)
	authService := NewAuthService(userRepo, NewSyncActivityService(activityRepo), "test-secret", time.Hour)
	resetService := NewPasswordResetService(resetRepo, userRepo)

	return resetService, authService, testDB
}

func TestPasswordResetService_RequestReset_UnknownEmailSucceeds(t *testing.T) {
	resetService, _, testDB := setupPasswordResetTest(t)

	require.NoError(t, resetService.RequestReset("nobody@example.com"))

	var count int64
	testDB.Model(&model.PasswordReset{}).Count(&count)
	assert.Zero(t, count)
}

func TestPasswordResetService_FullFlow(t *testing.T) {
	resetService, authService, testDB := setupPasswordResetTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, resetService.RequestReset("alice@example.com"))

	var reset model.PasswordReset
	require.NoError(t, testDB.Where("email = ?", "alice@example.com").First(&reset).Error)
	assert.False(t, reset.Used)
	assert.True(t, reset.ExpiresAt.After(time.Now()))

	require.NoError(t, resetService.ResetPassword(reset.Token, "newpassword1"))

	_, _, err = authService.Login("alice@example.com", "newpassword1")
	assert.NoError(t, err)

	// The token is single-use
	err = resetService.ResetPassword(reset.Token, "anotherpassword")
	assert.ErrorIs(t, err, ErrResetTokenUsed)
}

func TestPasswordResetService_ExpiredToken(t *testing.T) {
	resetService, authService, testDB := setupPasswordResetTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, resetService.RequestReset("alice@example.com"))

	var reset model.PasswordReset
	require.NoError(t, testDB.Where("email = ?", "alice@example.com").First(&reset).Error)
	testDB.Model(&model.PasswordReset{}).Where("id = ?", reset.ID).
		Update("expires_at", time.Now().Add(-time.Minute))

	err = resetService.ResetPassword(reset.Token, "newpassword1")
	assert.ErrorIs(t, err, ErrResetTokenExpired)
}

func TestPasswordResetService_InvalidToken(t *testing.T) {
	resetService, _, _ := setupPasswordResetTest(t)

	err := resetService.ResetPassword("bogus", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordResetService_NewRequestSupersedesOldToken(t *testing.T) {
	resetService, authService, testDB := setupPasswordResetTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, resetService.RequestReset("alice@example.com"))

	var first model.PasswordReset
	require.NoError(t, testDB.Where("email = ?", "alice@example.com").First(&first).Error)

	require.NoError(t, resetService.RequestReset("alice@example.com"))

	err = resetService.ResetPassword(first.Token, "newpassword1")
	assert.ErrorIs(t, err, ErrResetTokenUsed)

	var latest model.PasswordReset
	require.NoError(t, testDB.Where("email = ? AND used = ?", "alice@example.com", false).
		First(&latest).Error)
	require.NoError(t, resetService.ResetPassword(latest.Token, "newpassword1"))

	_, _, err = authService.Login("alice@example.com", "newpassword1")
	assert.NoError(t, err)
}
