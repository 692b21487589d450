package router

import (
	"github.com/gin-gonic/gin"
	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/interfaces/http/handler"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
)

// InventoryRoutes serves the item list and its forms. gate is Open() unless
// inventory.require_auth is set.
func InventoryRoutes(h *handler.InventoryHandler, gate gin.HandlerFunc) *Section {
	g := NewSection("inventory", "").Use(gate)
	g.GET("/", h.List)
	g.POST("/add_item", h.Add)
	g.GET("/update_item/:id", h.Edit)
	g.POST("/update_item/:id", h.Update)
	g.GET("/delete_item/:id", h.Delete)
	return g
}

// InventoryGate picks the inventory gate from configuration
func InventoryGate(requireAuth bool) gin.HandlerFunc {
	if requireAuth {
		return middleware.Gate(middleware.RequireSession())
	}
	return middleware.Open()
}

// MoodRoutes serves the tracker pages and chart data of the signed-in user
func MoodRoutes(h *handler.MoodHandler) *Section {
	g := NewSection("mood", "").Use(middleware.Gate(middleware.RequireSession()))
	g.GET(middleware.MoodTrackerPath, h.Tracker)
	g.GET(middleware.MoodTrackerPath+"/weekly", h.Weekly)
	g.POST("/add_mood", h.Add)
	g.GET("/delete_mood/:id", h.Delete)

	api := g.Nest("mood-api", "/api")
	api.GET("/mood-data", h.ChartData)
	api.GET("/mood-data/weekly", h.WeeklyChartData)
	return g
}

// AuthRoutes serves login, logout and the password change form. loginLimit
// may be nil.
func AuthRoutes(h *handler.AuthHandler, loginLimit gin.HandlerFunc) *Section {
	g := NewSection("auth", "")
	g.GET(middleware.LoginPath, h.LoginPage)
	g.POST(middleware.LoginPath, loginLimit, h.Login)
	g.GET("/logout", h.Logout)

	account := g.Nest("account", "").Use(middleware.Gate(middleware.RequireSession()))
	account.GET("/change-password", h.ChangePasswordPage)
	account.POST("/change-password", h.ChangePassword)
	return g
}

// AdminRoutes serves user management to admins
func AdminRoutes(h *handler.AdminHandler) *Section {
	g := NewSection("admin", "/admin").Use(middleware.Gate(
		middleware.RequireSession(),
		middleware.RequireRole(identity.RoleAdmin.String()),
	))
	g.GET("", h.Users)
	g.GET("/create-user", h.CreateUserPage)
	g.POST("/create-user", h.CreateUser)
	g.GET("/delete-user/:id", h.DeleteUser)
	g.POST("/update-role/:id", h.UpdateRole)
	g.GET("/reset-password/:id", h.ResetPasswordPage)
	g.POST("/reset-password/:id", h.ResetPassword)
	return g
}

// HealthRoutes serves the liveness probe
func HealthRoutes(h *handler.HealthHandler) *Section {
	return NewSection("health", "").GET("/health", h.Health)
}

// Handlers bundles the handlers served by the site
type Handlers struct {
	Inventory *handler.InventoryHandler
	Mood      *handler.MoodHandler
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	Health    *handler.HealthHandler
}

// Site mounts every section of the site on r and returns the route table
func Site(r *Router, h Handlers, inventoryGate, loginLimit gin.HandlerFunc) []RouteInfo {
	sections := []*Section{
		InventoryRoutes(h.Inventory, inventoryGate),
		MoodRoutes(h.Mood),
		AuthRoutes(h.Auth, loginLimit),
		AdminRoutes(h.Admin),
		HealthRoutes(h.Health),
	}
	var table []RouteInfo
	for _, s := range sections {
		r.Register(s)
		table = append(table, s.Routes(r.prefix)...)
	}
	r.Setup()
	return table
}
