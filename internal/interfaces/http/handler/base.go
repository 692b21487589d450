// Package handler implements the page, form and JSON endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/infrastructure/logger"
	"github.com/moodtrack/backend/internal/infrastructure/persistence"
	"github.com/moodtrack/backend/internal/interfaces/http/dto"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
	"github.com/moodtrack/backend/internal/interfaces/http/view"
	"go.uber.org/zap"
)

// StoreStatus reports which backend serves requests
type StoreStatus interface {
	Mode() persistence.Mode
}

// BaseHandler provides rendering and error helpers shared by every handler
type BaseHandler struct {
	store StoreStatus
}

// NewBaseHandler creates a BaseHandler. store may be nil in tests.
func NewBaseHandler(store StoreStatus) BaseHandler {
	return BaseHandler{store: store}
}

// page assembles the template data; it consumes pending flashes
func (h *BaseHandler) page(c *gin.Context, title string, data any) view.Page {
	p := view.Page{
		Title:   title,
		Flashes: middleware.PopFlashes(c),
		Data:    data,
	}
	if claims := middleware.CurrentClaims(c); claims != nil {
		p.Viewer = &view.Viewer{
			ID:      claims.UserID,
			Email:   claims.Email,
			Role:    claims.Role,
			IsAdmin: claims.Role == identity.RoleAdmin.String(),
		}
	}
	if h.store != nil {
		mode := h.store.Mode()
		p.StoreMode = mode.String()
		p.Degraded = mode.Degraded()
	}
	return p
}

// render writes a page template
func (h *BaseHandler) render(c *gin.Context, status int, name, title string, data any) {
	c.HTML(status, name, h.page(c, title, data))
}

// redirect sends a 302 to location
func (h *BaseHandler) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// flashRedirect queues a notice and redirects
func (h *BaseHandler) flashRedirect(c *gin.Context, category, message, location string) {
	middleware.AddFlash(c, category, message)
	h.redirect(c, location)
}

// renderError renders the error page with status
func (h *BaseHandler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, "error.html", http.StatusText(status), view.ErrorData{
		Status:    status,
		Message:   message,
		RequestID: c.GetString(logger.GinRequestIDKey),
	})
}

// HandleError renders err as an error page. Internal errors are logged and
// their details hidden.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_, status, message := dto.Classify(err)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
		_ = c.Error(err)
	}
	h.renderError(c, status, message)
}

// JSONError writes err as the JSON error envelope
func (h *BaseHandler) JSONError(c *gin.Context, err error) {
	code, status, message := dto.Classify(err)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
		_ = c.Error(err)
	}
	c.JSON(status, dto.NewErrorResponse(code, message, c.GetString(logger.GinRequestIDKey)))
}

// badRequest renders a 400 page for unparsable form input
func (h *BaseHandler) badRequest(c *gin.Context, err error) {
	h.renderError(c, http.StatusBadRequest, middleware.ValidationMessage(err))
}

// NotFound renders the 404 page for unknown routes
func (h *BaseHandler) NotFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "Page not found")
}

// InternalError renders the 500 page; used by the panic recovery middleware
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.renderError(c, http.StatusInternalServerError, "An unexpected error occurred")
}

// TooLarge answers form posts over the body limit
func (h *BaseHandler) TooLarge(c *gin.Context) {
	h.renderError(c, http.StatusRequestEntityTooLarge, "The submitted form is too large")
}

// TooManyRequests answers rate-limited login attempts
func (h *BaseHandler) TooManyRequests(c *gin.Context) {
	h.renderError(c, http.StatusTooManyRequests, "Too many login attempts, please wait a minute and try again")
}
