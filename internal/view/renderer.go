// Package view renders the server side HTML pages.
package view

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"home.html", "post.html", "user_posts.html", "error.html"}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout into its own set so that page blocks do not collide.
type Renderer struct {
	sets map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// ErrorPage is the model of error.html.
type ErrorPage struct {
	Title   string
	Status  int
	Message string
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.UTC().Format("January 2, 2006") },
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", page)
		}
		sets[page] = t
	}
	return &Renderer{sets: sets}, nil
}

// Render executes the layout of the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.sets[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
