// Package views holds the HTML templates, embedded into the binary.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"simplefeed/app/flash"
	"simplefeed/app/models"
)

//go:embed layout.html posts/*.html shared/*.html
var files embed.FS

// Page is the data every template renders.
type Page struct {
	Title    string
	Flash    *flash.Message
	Keyword  string
	Posts    []*models.Post
	Post     *models.Post
	Comments []*models.Comment
	// Errors are full messages shown above a re-rendered form.
	Errors []string
	// Action and Method are the form target; Method is empty for POST.
	Action string
	Method string
}

var pages = map[string][]string{
	"index":  {"posts/index.html"},
	"search": {"posts/search.html"},
	"show":   {"posts/show.html", "shared/comments.html"},
	"new":    {"posts/new.html", "shared/form.html"},
	"edit":   {"posts/edit.html", "shared/form.html"},
}

// Templates maps a page name to its parsed template set.
type Templates map[string]*template.Template

// Load parses one template set per page from the embedded files.
func Load() (Templates, error) {
	templates := make(Templates, len(pages))
	for name, parts := range pages {
		patterns := append([]string{"layout.html", "shared/flash.html"}, parts...)
		t, err := template.ParseFS(files, patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s templates: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// MustLoad is Load for static setup; the embedded templates cannot change
// at run time.
func MustLoad() Templates {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes the named page into w.
func (t Templates) Render(w io.Writer, name string, page *Page) error {
	tmpl, ok := t[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", page)
}
