// Package view holds the embedded HTML templates and static assets.
package view

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Viewer is the signed-in user as the templates see it
type Viewer struct {
	ID      string
	Email   string
	Role    string
	IsAdmin bool
}

// Page is the data every template receives
type Page struct {
	Title     string
	Viewer    *Viewer
	Flashes   []middleware.Flash
	StoreMode string
	Degraded  bool
	Data      any
}

// ErrorData is rendered by error.html
type ErrorData struct {
	Status    int
	Message   string
	RequestID string
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"scores": func(max int) []int {
		out := make([]int, max)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

// Templates parses every page template
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static serves the embedded assets under /static
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
