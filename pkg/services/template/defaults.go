package template

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const (
	LayoutTemplate = "layout"
	HeaderPartial  = "header"
	FooterPartial  = "footer"
)

//go:embed templates
var defaultTemplates embed.FS

// NewDefaultEngine builds an engine with the bundled layout, header, footer,
// shared partials and one template per catalog section.
func NewDefaultEngine(opts ...EngineOption) (*Engine, error) {
	e := NewEngine(opts...)
	if err := LoadFS(e, defaultTemplates, "templates"); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadFS registers templates from root: root/layout.gohtml and root/sections/*.gohtml
// become templates, root/header.gohtml, root/footer.gohtml and root/partials/*.gohtml
// become partials. Names are file names without the extension.
func LoadFS(e *Engine, fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".gohtml" {
			return nil
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read template %s: %w", p, err)
		}

		name := strings.TrimSuffix(path.Base(p), ".gohtml")
		switch dir := path.Base(path.Dir(p)); {
		case dir == "partials", name == HeaderPartial, name == FooterPartial:
			e.RegisterPartial(name, string(src))
		default:
			e.RegisterTemplate(name, string(src))
		}
		return nil
	})
}
