package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/labstack/echo/v4"
)

//go:embed templates
var templatesFS embed.FS

const (
	baseTemplate   = "templates/base.html"
	includesGlob   = "templates/includes/*.html"
	pagesDir       = "templates/pages"
	dateLayout     = "January 2, 2006"
	dateTimeLayout = "January 2, 2006, 15:04"
)

// renderer keeps one template set per page, each built on the shared base layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(media MediaURLs) (*renderer, error) {
	funcs := template.FuncMap{
		"mediaURL":      media.URL,
		"isAuthor":      blog.IsAuthor,
		"date":          func(t time.Time) string { return t.Format(dateLayout) },
		"datetime":      func(t time.Time) string { return t.Format(dateTimeLayout) },
		"postURL":       postURL,
		"profileURL":    profileURL,
		"categoryURL":   categoryURL,
		"linebreaksbr":  linebreaksbr,
		"truncateWords": truncateWords,
	}

	entries, err := fs.ReadDir(templatesFS, pagesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	r := &renderer{pages: make(map[string]*template.Template, len(entries))}
	for _, entry := range entries {
		name := entry.Name()
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			baseTemplate, includesGlob, path.Join(pagesDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

func linebreaksbr(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func truncateWords(n int, s string) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + " ..."
}
