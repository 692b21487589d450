package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/moodtrack/backend/internal/application/identity"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"github.com/moodtrack/backend/internal/interfaces/http/dto"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler serves login, logout and password change
type AuthHandler struct {
	BaseHandler
	auth   *identityapp.AuthService
	cookie middleware.SessionCookie
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(base BaseHandler, auth *identityapp.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{BaseHandler: base, auth: auth, cookie: cookie}
}

// LoginForm is the payload of POST /login
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ChangePasswordForm is the payload of POST /change-password
type ChangePasswordForm struct {
	CurrentPassword string `form:"current_password" binding:"required"`
	NewPassword     string `form:"new_password" binding:"required,min=8,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// LoginPage renders the login form; signed-in users go to the tracker
//
// GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.CurrentClaims(c) != nil {
		h.redirect(c, middleware.MoodTrackerPath)
		return
	}
	h.render(c, http.StatusOK, "login.html", "Log in", c.Query("email"))
}

// Login verifies credentials and sets the session cookie
//
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashRedirect(c, middleware.FlashError, "Email and password are required", middleware.LoginPath)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if _, status, msg := dto.Classify(err); status < http.StatusInternalServerError {
			h.flashRedirect(c, middleware.FlashError, msg, middleware.LoginPath)
			return
		}
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Token, result.ExpiresAt)
	h.flashRedirect(c, middleware.FlashSuccess, "Welcome, "+result.User.Email, middleware.MoodTrackerPath)
}

// Logout revokes the session and clears the cookie
//
// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), h.cookie.Token(c)); err != nil {
		logger.GetGinLogger(c).Warn("Failed to revoke session on logout", zap.Error(err))
	}
	h.cookie.Clear(c)
	h.flashRedirect(c, middleware.FlashInfo, "You have been logged out", middleware.LoginPath)
}

// ChangePasswordPage renders the password form
//
// GET /change-password
func (h *AuthHandler) ChangePasswordPage(c *gin.Context) {
	h.render(c, http.StatusOK, "change_password.html", "Change password", nil)
}

// ChangePassword replaces the signed-in user's password
//
// POST /change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var form ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashRedirect(c, middleware.FlashError, middleware.ValidationMessage(err), "/change-password")
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), form.CurrentPassword, form.NewPassword)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.HandleError(c, err)
			return
		}
		if _, status, msg := dto.Classify(err); status < http.StatusInternalServerError {
			h.flashRedirect(c, middleware.FlashError, msg, "/change-password")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.flashRedirect(c, middleware.FlashSuccess, "Password changed", middleware.MoodTrackerPath)
}
