package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/moodtrack/backend/internal/application/identity"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/mail"
	"github.com/moodtrack/backend/internal/interfaces/http/dto"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
)

const adminPath = "/admin"

// AdminHandler serves the user management pages
type AdminHandler struct {
	BaseHandler
	users *identityapp.UserService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(base BaseHandler, users *identityapp.UserService) *AdminHandler {
	return &AdminHandler{BaseHandler: base, users: users}
}

// CreateUserForm is the payload of POST /admin/create-user
type CreateUserForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8,max=72"`
	Role     string `form:"role" binding:"required,oneof=admin participant"`
}

// UpdateRoleForm is the payload of POST /admin/update-role/:id
type UpdateRoleForm struct {
	Role string `form:"role" binding:"required,oneof=admin participant"`
}

// ResetPasswordForm is the payload of POST /admin/reset-password/:id
type ResetPasswordForm struct {
	NewPassword string `form:"new_password" binding:"required,min=8,max=72"`
}

// failOrFlash flashes client errors and redirects; internal errors render the error page
func (h *AdminHandler) failOrFlash(c *gin.Context, err error, location string) {
	if errors.Is(err, shared.ErrNotFound) {
		h.flashRedirect(c, middleware.FlashError, "User not found", adminPath)
		return
	}
	if _, status, msg := dto.Classify(err); status < http.StatusInternalServerError {
		h.flashRedirect(c, middleware.FlashError, msg, location)
		return
	}
	h.HandleError(c, err)
}

// Users lists every account
//
// GET /admin
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin.html", "Users", users)
}

// CreateUserPage renders the new account form
//
// GET /admin/create-user
func (h *AdminHandler) CreateUserPage(c *gin.Context) {
	h.render(c, http.StatusOK, "create_user.html", "Create user", "")
}

// CreateUser adds an account and emails the sign-in details
//
// POST /admin/create-user
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var form CreateUserForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashRedirect(c, middleware.FlashError, middleware.ValidationMessage(err), "/admin/create-user")
		return
	}

	result, err := h.users.Create(c.Request.Context(), identityapp.CreateUserInput{
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
	})
	if err != nil {
		h.failOrFlash(c, err, "/admin/create-user")
		return
	}

	switch {
	case result.EmailSent:
		middleware.AddFlash(c, middleware.FlashSuccess, "Created "+result.User.Email+" and sent the welcome email")
	case errors.Is(result.EmailError, mail.ErrDisabled):
		middleware.AddFlash(c, middleware.FlashInfo, "Created "+result.User.Email+"; email delivery is not configured, share the password yourself")
	default:
		middleware.AddFlash(c, middleware.FlashWarning, "Created "+result.User.Email+", but the welcome email could not be sent")
	}
	h.redirect(c, adminPath)
}

// DeleteUser removes an account and its mood entries
//
// GET /admin/delete-user/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		h.failOrFlash(c, err, adminPath)
		return
	}
	h.flashRedirect(c, middleware.FlashSuccess, "User deleted", adminPath)
}

// UpdateRole assigns a role
//
// POST /admin/update-role/:id
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	var form UpdateRoleForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashRedirect(c, middleware.FlashError, middleware.ValidationMessage(err), adminPath)
		return
	}
	if err := h.users.UpdateRole(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), form.Role); err != nil {
		h.failOrFlash(c, err, adminPath)
		return
	}
	h.flashRedirect(c, middleware.FlashSuccess, "Role updated", adminPath)
}

// ResetPasswordPage renders the reset form
//
// GET /admin/reset-password/:id
func (h *AdminHandler) ResetPasswordPage(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failOrFlash(c, err, adminPath)
		return
	}
	h.render(c, http.StatusOK, "reset_password.html", "Reset password", user)
}

// ResetPassword sets a new password for a user
//
// POST /admin/reset-password/:id
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id := c.Param("id")
	back := "/admin/reset-password/" + id

	var form ResetPasswordForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashRedirect(c, middleware.FlashError, middleware.ValidationMessage(err), back)
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), id, form.NewPassword); err != nil {
		h.failOrFlash(c, err, back)
		return
	}
	h.flashRedirect(c, middleware.FlashSuccess, "Password reset", adminPath)
}
