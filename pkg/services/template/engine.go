// Package template renders report documents from named html templates and partials.
package template

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"sort"
	"sync"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/format"
	"golang.org/x/text/language"
)

// Renderer renders a named template or partial against a context
type Renderer interface {
	Render(name string, data any) (string, error)
	RenderPartial(name string, data any) (string, error)
}

// LocaleRenderer is a Renderer that can bind its formatting helpers to a locale.
type LocaleRenderer interface {
	Renderer
	WithLocale(locale string) Renderer
}

// Engine compiles registered templates on first use and memoises the result.
// Every registered partial is available to every template, both through
// {{template "name" .}} and through the partial helper. Helper sets and
// compiled templates are kept per locale.
type Engine struct {
	formatter *format.Formatter
	custom    htmltemplate.FuncMap

	mu        sync.RWMutex
	templates map[string]string
	partials  map[string]string
	funcs     map[string]htmltemplate.FuncMap
	compiled  map[string]map[string]*htmltemplate.Template
}

type EngineOption func(*Engine)

// WithHelpers adds helpers to the registry, replacing built-in helpers of the same name.
func WithHelpers(funcs htmltemplate.FuncMap) EngineOption {
	return func(e *Engine) {
		for name, fn := range funcs {
			e.custom[name] = fn
		}
	}
}

// WithFormatter sets the formatter used when no locale is requested.
func WithFormatter(f *format.Formatter) EngineOption {
	return func(e *Engine) { e.formatter = f }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		formatter: format.Default(),
		custom:    make(htmltemplate.FuncMap),
		templates: make(map[string]string),
		partials:  make(map[string]string),
		funcs:     make(map[string]htmltemplate.FuncMap),
		compiled:  make(map[string]map[string]*htmltemplate.Template),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Locale is the tag used by Render and RenderPartial.
func (e *Engine) Locale() string {
	return e.formatter.Locale().String()
}

// WithLocale returns a view of the engine whose formatting helpers use locale.
// Empty or unparsable locales keep the engine's own formatter.
func (e *Engine) WithLocale(locale string) Renderer {
	tag, err := language.Parse(locale)
	if locale == "" || err != nil {
		return localized{engine: e, locale: e.Locale()}
	}
	return localized{engine: e, locale: tag.String()}
}

type localized struct {
	engine *Engine
	locale string
}

func (l localized) Render(name string, data any) (string, error) {
	return l.engine.render(l.locale, name, false, data)
}

func (l localized) RenderPartial(name string, data any) (string, error) {
	return l.engine.render(l.locale, name, true, data)
}

func (e *Engine) RegisterTemplate(name, src string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[name] = src
	for _, compiled := range e.compiled {
		delete(compiled, templateKey(name))
	}
}

// RegisterPartial adds a partial; every compiled template is dropped since any of them may use it.
func (e *Engine) RegisterPartial(name, src string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.partials[name] = src
	e.compiled = make(map[string]map[string]*htmltemplate.Template)
}

func (e *Engine) HasTemplate(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.templates[name]
	return ok
}

// Templates lists registered template names in sorted order.
func (e *Engine) Templates() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) Render(name string, data any) (string, error) {
	return e.render(e.Locale(), name, false, data)
}

func (e *Engine) RenderPartial(name string, data any) (string, error) {
	return e.render(e.Locale(), name, true, data)
}

func (e *Engine) render(locale, name string, partial bool, data any) (string, error) {
	t, err := e.lookup(locale, name, partial)
	if err != nil {
		return "", err
	}
	return execute(name, t, data)
}

func (e *Engine) lookup(locale, name string, partial bool) (*htmltemplate.Template, error) {
	key := templateKey(name)
	if partial {
		key = partialKey(name)
	}

	e.mu.RLock()
	t, ok := e.compiled[locale][key]
	e.mu.RUnlock()
	if ok {
		return t, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.compiled[locale][key]; ok {
		return t, nil
	}

	sources := e.templates
	if partial {
		sources = e.partials
	}
	src, ok := sources[name]
	if !ok {
		return nil, &domain.TemplateNotFoundError{Template: name}
	}

	t, err := e.compile(locale, name, src, partial)
	if err != nil {
		return nil, &domain.RenderError{Template: name, Err: err}
	}
	if e.compiled[locale] == nil {
		e.compiled[locale] = make(map[string]*htmltemplate.Template)
	}
	e.compiled[locale][key] = t
	return t, nil
}

// helpers must be called with mu held
func (e *Engine) helpers(locale string) htmltemplate.FuncMap {
	if funcs, ok := e.funcs[locale]; ok {
		return funcs
	}
	f := e.formatter
	if locale != e.Locale() {
		f = format.ForLocale(locale)
	}
	funcs := Helpers(f)
	for name, fn := range e.custom {
		funcs[name] = fn
	}
	funcs["partial"] = func(name string, data any) (htmltemplate.HTML, error) {
		out, err := e.render(locale, name, true, data)
		if err != nil {
			return "", err
		}
		return htmltemplate.HTML(out), nil
	}
	e.funcs[locale] = funcs
	return funcs
}

// compile must be called with mu held
func (e *Engine) compile(locale, name, src string, partial bool) (*htmltemplate.Template, error) {
	root := htmltemplate.New(name).Option("missingkey=error").Funcs(e.helpers(locale))
	for pname, psrc := range e.partials {
		if partial && pname == name {
			continue
		}
		if _, err := root.New(pname).Parse(psrc); err != nil {
			return nil, fmt.Errorf("parse partial %q: %w", pname, err)
		}
	}
	if _, err := root.Parse(src); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return root, nil
}

func execute(name string, t *htmltemplate.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", &domain.RenderError{Template: name, Err: err}
	}
	return buf.String(), nil
}

func templateKey(name string) string { return "t:" + name }

func partialKey(name string) string { return "p:" + name }
