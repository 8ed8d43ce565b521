package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/app/service"
	apierrors "github.com/shopzone/shopzone-backend/internal/errors"
	"github.com/shopzone/shopzone-backend/internal/middleware"
)

type AuthController struct {
	authService  service.AuthService
	resetService service.PasswordResetService
}

func NewAuthController(authService service.AuthService, resetService service.PasswordResetService) *AuthController {
	return &AuthController{
		authService:  authService,
		resetService: resetService,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register creates a new account
// POST /api/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid registration data")
		return
	}

	user, token, err := ctrl.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			log.Warn("Registration conflict", map[string]interface{}{
				"email": req.Email,
			})
			apierrors.Conflict(c, apierrors.AuthEmailAlreadyExists, "email already registered")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apierrors.ParseAndRespond(c, err, "create user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

// Login exchanges credentials for a bearer token
// POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid login data")
		return
	}

	user, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			log.Warn("Login rejected: bad credentials", map[string]interface{}{
				"email": req.Email,
			})
			apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.AuthInvalidCredentials, "invalid email or password")
		case errors.Is(err, service.ErrAccountDeactivated):
			log.Warn("Login rejected: account deactivated", map[string]interface{}{
				"email": req.Email,
			})
			apierrors.RespondWithError(c, http.StatusForbidden, apierrors.AuthAccountDeactivated, "account is deactivated")
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apierrors.InternalError(c, "failed to log in")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout revokes the current token
// POST /api/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token, exists := middleware.GetToken(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		log.Error("Logout failed", err)
		apierrors.InternalError(c, "failed to log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "logged out",
	})
}

// ChangePassword updates the caller's password
// PUT /api/auth/password
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid password data")
		return
	}

	if err := ctrl.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidOldPassword) {
			log.Warn("Password change rejected", map[string]interface{}{
				"user_id": userID,
			})
			apierrors.BadRequest(c, apierrors.AuthInvalidCredentials, "current password is incorrect")
			return
		}
		log.Error("Password change failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apierrors.InternalError(c, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "password updated",
	})
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RequestPasswordReset issues a reset token for the given email. The
// response is identical whether or not the email is registered.
// POST /api/auth/reset-password
func (ctrl *AuthController) RequestPasswordReset(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid reset request")
		return
	}

	if err := ctrl.resetService.RequestReset(req.Email); err != nil {
		log.Error("Password reset request failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apierrors.InternalError(c, "failed to process reset request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "if the email exists, reset instructions have been sent",
	})
}

// ResetPassword redeems a reset token for a new password
// POST /api/auth/reset-password/confirm
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, "invalid reset data")
		return
	}

	err := ctrl.resetService.ResetPassword(req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken),
			errors.Is(err, service.ErrResetTokenExpired),
			errors.Is(err, service.ErrResetTokenUsed):
			apierrors.BadRequest(c, apierrors.AuthTokenInvalid, "invalid or expired reset token")
		default:
			log.Error("Password reset failed", err)
			apierrors.InternalError(c, "failed to reset password")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "password reset successful",
	})
}
