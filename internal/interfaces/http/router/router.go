package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a set of routes on a gin group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts the site sections on the engine
type Router struct {
	engine     *gin.Engine
	prefix     string
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithPrefix mounts every section below prefix (e.g. "/app")
func WithPrefix(prefix string) RouterOption {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// NewRouter mounts at the root unless WithPrefix is given
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every queued registrar in registration order
func (r *Router) Setup() {
	root := r.engine.Group(r.prefix)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(root)
	}
}

// Section is one area of the site (inventory, mood tracker, admin) with
// its own path prefix and middleware. Middleware only wraps the routes of
// the section and its nested sections.
type Section struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	nested     []*Section
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// RouteInfo describes one mounted route
type RouteInfo struct {
	Section string
	Method  string
	Path    string
}

// NewSection starts a section. An empty prefix shares the parent's path.
func NewSection(name, prefix string) *Section {
	return &Section{name: name, prefix: prefix}
}

// Use appends middleware for the section's routes
func (s *Section) Use(middleware ...gin.HandlerFunc) *Section {
	s.middleware = append(s.middleware, middleware...)
	return s
}

func (s *Section) GET(path string, handlers ...gin.HandlerFunc) *Section {
	return s.add(http.MethodGet, path, handlers)
}

func (s *Section) POST(path string, handlers ...gin.HandlerFunc) *Section {
	return s.add(http.MethodPost, path, handlers)
}

// add drops nil handlers so optional middleware can be passed inline
func (s *Section) add(method, path string, handlers []gin.HandlerFunc) *Section {
	chain := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			chain = append(chain, h)
		}
	}
	s.routes = append(s.routes, route{method: method, path: path, handlers: chain})
	return s
}

// Nest opens a section below this one; it inherits this section's middleware
func (s *Section) Nest(name, prefix string) *Section {
	child := NewSection(name, prefix)
	s.nested = append(s.nested, child)
	return child
}

// RegisterRoutes implements RouteRegistrar
func (s *Section) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(s.prefix)
	if len(s.middleware) > 0 {
		group.Use(s.middleware...)
	}
	for _, rt := range s.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, child := range s.nested {
		child.RegisterRoutes(group)
	}
}

// Routes lists the section's routes, nested ones included, relative to base
func (s *Section) Routes(base string) []RouteInfo {
	prefix := joinPath(base, s.prefix)
	out := make([]RouteInfo, 0, len(s.routes))
	for _, rt := range s.routes {
		out = append(out, RouteInfo{Section: s.name, Method: rt.method, Path: joinPath(prefix, rt.path)})
	}
	for _, child := range s.nested {
		out = append(out, child.Routes(prefix)...)
	}
	return out
}

func joinPath(base, rel string) string {
	if rel == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	return path.Join("/", base, rel)
}
