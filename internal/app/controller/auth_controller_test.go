package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/shopzone/shopzone-backend/internal/app/repository"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	"github.com/shopzone/shopzone-backend/internal/db"
	"github.com/shopzone/shopzone-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set(middleware.UserIDKey, userID)
}

func setupAuthControllerTest(t *testing.T) (*AuthController, service.AuthService, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	activityRepo := repository.NewActivityLogRepository(testDB)
	activitySvc := service.NewSyncActivityService(activityRepo)
	authService := service.NewAuthService(userRepo, activitySvc, "test-secret", time.Hour)
	resetService := service.NewPasswordResetService(repository.NewPasswordResetRepository(testDB), userRepo)

	return NewAuthController(authService, resetService), authService, testDB
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register_Success(t *testing.T) {
	ctrl, _, _ := setupAuthControllerTest(t)

	router := gin.New()
	router.POST("/register", ctrl.Register)

	w := postJSON(t, router, "/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	user := resp["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
	assert.NotContains(t, user, "password_hash")
}

func TestAuthController_Register_ValidationFailure(t *testing.T) {
	ctrl, _, _ := setupAuthControllerTest(t)

	router := gin.New()
	router.POST("/register", ctrl.Register)

	// Password too short
	w := postJSON(t, router, "/register", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	ctrl, _, _ := setupAuthControllerTest(t)

	router := gin.New()
	router.POST("/register", ctrl.Register)

	body := gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/register", body).Code)

	w := postJSON(t, router, "/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthController_Login_Success(t *testing.T) {
	ctrl, authService, _ := setupAuthControllerTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	router := gin.New()
	router.POST("/login", ctrl.Login)

	w := postJSON(t, router, "/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
}

func TestAuthController_Login_BadCredentials(t *testing.T) {
	ctrl, authService, _ := setupAuthControllerTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	router := gin.New()
	router.POST("/login", ctrl.Login)

	w := postJSON(t, router, "/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_Login_DeactivatedAccount(t *testing.T) {
	ctrl, authService, testDB := setupAuthControllerTest(t)

	user, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)
	testDB.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false)

	router := gin.New()
	router.POST("/login", ctrl.Login)

	w := postJSON(t, router, "/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthController_ChangePassword_WrongOldPassword(t *testing.T) {
	ctrl, authService, _ := setupAuthControllerTest(t)

	user, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	router := gin.New()
	router.PUT("/password", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		ctrl.ChangePassword(c)
	})

	payload, err := json.Marshal(gin.H{
		"old_password": "badold",
		"new_password": "newpassword1",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/password", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_RequestPasswordReset_GenericResponse(t *testing.T) {
	ctrl, authService, _ := setupAuthControllerTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	router := gin.New()
	router.POST("/reset-password", ctrl.RequestPasswordReset)

	// Known and unknown emails get the same answer
	for _, email := range []string{"alice@example.com", "nobody@example.com"} {
		w := postJSON(t, router, "/reset-password", gin.H{"email": email})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAuthController_ResetPassword_InvalidToken(t *testing.T) {
	ctrl, _, _ := setupAuthControllerTest(t)

	router := gin.New()
	router.POST("/reset-password/confirm", ctrl.ResetPassword)

	w := postJSON(t, router, "/reset-password/confirm", gin.H{
		"token":        "bogus",
		"new_password": "newpassword1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_ResetPassword_FullFlow(t *testing.T) {
	ctrl, authService, testDB := setupAuthControllerTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	router := gin.New()
	router.POST("/reset-password", ctrl.RequestPasswordReset)
	router.POST("/reset-password/confirm", ctrl.ResetPassword)

	require.Equal(t, http.StatusOK, postJSON(t, router, "/reset-password", gin.H{
		"email": "alice@example.com",
	}).Code)

	var reset model.PasswordReset
	require.NoError(t, testDB.Where("email = ?", "alice@example.com").First(&reset).Error)

	w := postJSON(t, router, "/reset-password/confirm", gin.H{
		"token":        reset.Token,
		"new_password": "newpassword1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	_, _, err = authService.Login("alice@example.com", "newpassword1")
	assert.NoError(t, err)
}
