package report

import (
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
	"github.com/de-tools/ewaste-reports/pkg/services/validation"
)

// Preview describes what a report would contain without fetching or rendering anything
type Preview struct {
	ReportType      string                     `json:"reportType"`
	Name            string                     `json:"name"`
	Description     string                     `json:"description"`
	EstimatedPages  float64                    `json:"estimatedPages"`
	MaxPages        int                        `json:"maxPages"`
	ExceedsMaxPages bool                       `json:"exceedsMaxPages"`
	Sections        []domain.SectionDefinition `json:"sections"`
	Validation      domain.ValidationResult    `json:"validation"`
	Features        domain.SectionFeatures     `json:"features"`
	DateRange       domain.DateRange           `json:"dateRange"`
}

// Preview resolves and validates only. Validation failures are reported in the
// result; the only error is an unknown report type.
func (g *Generator) Preview(reportType string, opts domain.ReportOptions) (*Preview, error) {
	resolved, err := g.resolver.Resolve(reportType, opts)
	if err != nil {
		return nil, err
	}
	rt, ok := catalog.ReportType(resolved.ReportType)
	if !ok {
		return nil, &domain.UnknownReportTypeError{ReportType: reportType}
	}

	keys := catalog.OrderSections(resolved.SelectedKeys())
	sections := make([]domain.SectionDefinition, 0, len(keys))
	var features domain.SectionFeatures
	for _, key := range keys {
		def, ok := catalog.Section(key)
		if !ok {
			def = domain.SectionDefinition{Key: key, Name: key}
		}
		features.Charts = features.Charts || def.Features.Charts
		features.Tables = features.Tables || def.Features.Tables
		features.Interactive = features.Interactive || def.Features.Interactive
		sections = append(sections, def)
	}

	pages := catalog.EstimatePages(resolved.Sections)
	return &Preview{
		ReportType:      rt.Key,
		Name:            rt.Name,
		Description:     rt.Description,
		EstimatedPages:  pages,
		MaxPages:        rt.MaxPages,
		ExceedsMaxPages: rt.MaxPages > 0 && pages > float64(rt.MaxPages),
		Sections:        sections,
		Validation:      validation.ValidateReport(rt, resolved),
		Features:        features,
		DateRange:       resolved.DateRange,
	}, nil
}
