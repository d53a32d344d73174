// Package report orchestrates option resolution, validation, data processing and rendering.
package report

import (
	"context"
	"errors"
	htmltemplate "html/template"
	"strings"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
	"github.com/de-tools/ewaste-reports/pkg/services/format"
	"github.com/de-tools/ewaste-reports/pkg/services/template"
	"github.com/de-tools/ewaste-reports/pkg/services/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type OptionsResolver interface {
	Resolve(reportType string, opts domain.ReportOptions) (domain.ResolvedOptions, error)
}

type DataProcessor interface {
	ProcessForReport(ctx context.Context, reportType string, resolved domain.ResolvedOptions) (*domain.ProcessedReportData, error)
	ClearCache()
}

// Result is a fully rendered report. Data is only set when debug is enabled.
type Result struct {
	Document        string                      `json:"document"`
	Metadata        domain.ReportMetadata       `json:"metadata"`
	ResolvedOptions domain.ResolvedOptions      `json:"resolvedOptions"`
	Data            *domain.ProcessedReportData `json:"data,omitempty"`
}

type Generator struct {
	resolver  OptionsResolver
	processor DataProcessor
	renderer  template.Renderer
	observer  Observer
	now       func() time.Time
	newID     func() string
}

type Option func(*Generator)

func WithObserver(o Observer) Option {
	return func(g *Generator) { g.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(g *Generator) { g.newID = newID }
}

func NewGenerator(resolver OptionsResolver, processor DataProcessor, renderer template.Renderer, opts ...Option) *Generator {
	g := &Generator{
		resolver:  resolver,
		processor: processor,
		renderer:  renderer,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the full pipeline for one report. It either returns a complete
// document or fails; no partial output is ever produced.
func (g *Generator) Generate(ctx context.Context, reportType string, opts domain.ReportOptions) (*Result, error) {
	r := g.start(ctx, reportType)

	r.to(StateResolving)
	resolved, err := g.resolver.Resolve(reportType, opts)
	if err != nil {
		return nil, r.fail(err)
	}
	rt, ok := catalog.ReportType(resolved.ReportType)
	if !ok {
		return nil, r.fail(&domain.UnknownReportTypeError{ReportType: reportType})
	}

	r.to(StateValidating)
	if v := validation.ValidateReport(rt, resolved); !v.OK {
		return nil, r.fail(&domain.ValidationError{ReportType: rt.Key, Errors: v.Errors})
	}

	r.to(StateProcessing)
	data, err := g.processor.ProcessForReport(r.ctx, rt.Key, resolved)
	if err != nil {
		return nil, r.fail(err)
	}

	r.to(StateRendering)
	doc, meta, err := g.render(rt, resolved, data)
	if err != nil {
		return nil, r.fail(err)
	}

	r.to(StateDone)
	r.logger.Info().
		Str("report_id", meta.ReportID).
		Strs("sections", meta.SectionsIncluded).
		Float64("estimated_pages", meta.EstimatedPages).
		Msg("report generated")

	result := &Result{
		Document:        doc,
		Metadata:        meta,
		ResolvedOptions: resolved,
	}
	if resolved.Settings.Debug.Enabled {
		result.Data = data
	}
	return result, nil
}

func (g *Generator) render(
	rt domain.ReportTypeDefinition,
	resolved domain.ResolvedOptions,
	data *domain.ProcessedReportData,
) (string, domain.ReportMetadata, error) {
	keys := catalog.OrderSections(resolved.SelectedKeys())

	// data may be shared through the processor cache
	info := data.Metadata
	info.GeneratedAt = g.now()

	locale := resolved.Settings.Locale
	renderer := g.renderer
	if lr, ok := renderer.(template.LocaleRenderer); ok {
		renderer = lr.WithLocale(locale)
	}
	info.Subtitle = data.Client.Name + " · " + format.ForLocale(locale).DateRange(resolved.DateRange)

	meta := domain.ReportMetadata{
		ReportID:         g.newID(),
		ReportType:       rt.Key,
		ReportName:       rt.Name,
		Subtitle:         info.Subtitle,
		ClientName:       data.Client.Name,
		DateRange:        resolved.DateRange,
		SectionsIncluded: keys,
		EstimatedPages:   catalog.EstimatePages(resolved.Sections),
		TotalPages:       info.TotalPages,
		GeneratedAt:      info.GeneratedAt,
	}

	var body strings.Builder
	for _, key := range keys {
		def, ok := catalog.Section(key)
		if !ok {
			def = domain.SectionDefinition{Key: key, Name: key}
		}
		out, err := renderer.Render(key, template.SectionContext{
			Definition: def,
			Section:    data.Sections[key],
			Report:     info,
			Client:     data.Client,
			Summary:    data.Summary,
			Branding:   resolved.Settings.Branding,
			Currency:   resolved.Settings.Currency,
			Locale:     locale,
		})
		if err != nil {
			return "", meta, err
		}
		body.WriteString(out)
	}

	page := template.PageContext{
		Metadata: meta,
		Report:   info,
		Client:   data.Client,
		Summary:  data.Summary,
		Branding: resolved.Settings.Branding,
		Currency: resolved.Settings.Currency,
		Locale:   locale,
	}
	header, err := renderer.RenderPartial(template.HeaderPartial, page)
	if err != nil {
		return "", meta, err
	}
	footer, err := renderer.RenderPartial(template.FooterPartial, page)
	if err != nil {
		return "", meta, err
	}

	page.Header = trusted(header)
	page.Body = trusted(body.String())
	page.Footer = trusted(footer)
	doc, err := renderer.Render(template.LayoutTemplate, page)
	if err != nil {
		return "", meta, err
	}
	return doc, meta, nil
}

// ClearCache drops processed data cached between calls.
func (g *Generator) ClearCache() {
	g.processor.ClearCache()
}

func (g *Generator) AvailableSections() []domain.SectionDefinition {
	return catalog.Sections()
}

func (g *Generator) ReportTypes() []domain.ReportTypeDefinition {
	return catalog.ReportTypes()
}

// CalculateEstimatedPages sums the page estimates of every selected catalog section.
func CalculateEstimatedPages(selected map[string]bool) float64 {
	return catalog.EstimatePages(selected)
}

// OrderSections sorts keys into display order.
func OrderSections(keys []string) []string {
	return catalog.OrderSections(keys)
}

// trusted marks output that html/template has already escaped
func trusted(s string) htmltemplate.HTML {
	return htmltemplate.HTML(s)
}

type run struct {
	ctx    context.Context
	logger zerolog.Logger
	state  State
	notify Observer
}

func (g *Generator) start(ctx context.Context, reportType string) *run {
	logger := zerolog.Ctx(ctx).With().Str("report_type", reportType).Logger()
	return &run{
		ctx:    logger.WithContext(ctx),
		logger: logger,
		state:  StateIdle,
		notify: g.observer,
	}
}

func (r *run) to(next State) {
	from := r.state
	r.state = next
	r.logger.Debug().Stringer("from", from).Stringer("to", next).Msg("report state changed")
	if r.notify != nil {
		r.notify(from, next)
	}
}

func (r *run) fail(err error) error {
	failedIn := r.state
	r.to(StateFailed)

	event := r.logger.Error().Err(err).
		Str("kind", string(domain.KindOf(err))).
		Stringer("stage", failedIn)
	var notFound *domain.TemplateNotFoundError
	var renderErr *domain.RenderError
	switch {
	case errors.As(err, &notFound):
		event = event.Str("template", notFound.Template)
	case errors.As(err, &renderErr):
		event = event.Str("template", renderErr.Template)
	}
	event.Msg("report generation failed")
	return err
}
