package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/kickzone/kickzone-admin/internal/rbac"
	"github.com/kickzone/kickzone-admin/internal/shared"
	"github.com/kickzone/kickzone-admin/web"
)

const layoutName = "layout"

// Engine renders HTML pages. Each page is parsed on top of a private copy of
// the layouts and partials so pages can define the same blocks.
type Engine struct {
	pages map[string]*template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Profile     *rbac.Profile
	Nav         []rbac.NavItem
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	return NewEngineFS(web.Templates)
}

// NewEngineFS parses templates from fsys, which must contain a templates/ tree.
func NewEngineFS(fsys fs.FS) (*Engine, error) {
	base, err := template.New("root").Funcs(funcMap()).ParseFS(fsys, "templates/layouts/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse layouts: %w", err)
	}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(fsys, "templates/pages", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		clone, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := clone.ParseFS(fsys, path); err != nil {
			return fmt.Errorf("view: parse %s: %w", path, err)
		}
		pages[strings.TrimPrefix(path, "templates/")] = clone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Engine{pages: pages}, nil
}

// Has reports whether a page template exists.
func (e *Engine) Has(name string) bool {
	_, ok := e.pages[name]
	return ok
}

// Render executes the named page inside the layout. Output is buffered so a
// failing template never produces a partial page.
func (e *Engine) Render(w io.Writer, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	tpl, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, layoutName, data); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
