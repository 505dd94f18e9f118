// Package view renders the HTML pages.  Templates are embedded at build
// time; every page is parsed together with the shared layout.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-biosecurity/internal/flash"
	"github.com/iliyamo/farm-biosecurity/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the value every template receives.
type Page struct {
	Title   string
	User    *model.User
	Flashes []flash.Message
	Data    any
}

// IsAdmin is used by the layout to show admin navigation.
func (p Page) IsAdmin() bool { return p.User != nil && p.User.Role == model.RoleAdmin }

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
	"percent": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"orUnassigned": func(s string) string {
		if s == "" {
			return "Unassigned"
		}
		return s
	},
	"lower": strings.ToLower,
}

// New parses every page template against the layout.
func New() (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, p := range entries {
		name := path.Base(p)
		if name == "layout.html" {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", p)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(name, ".html")] = t
	}
	return r, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
