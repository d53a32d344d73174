package template

import (
	htmltemplate "html/template"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
)

// SectionContext is the read-only view handed to a section template
type SectionContext struct {
	Definition domain.SectionDefinition
	Section    domain.SectionView
	Report     domain.ReportInfo
	Client     domain.Client
	Summary    domain.Summary
	Branding   domain.Branding
	Currency   string
	Locale     string
}

// PageContext is handed to the header, footer and layout templates.
// Header, Body and Footer are only set when rendering the layout.
type PageContext struct {
	Metadata domain.ReportMetadata
	Report   domain.ReportInfo
	Client   domain.Client
	Summary  domain.Summary
	Branding domain.Branding
	Currency string
	Locale   string
	Header   htmltemplate.HTML
	Body     htmltemplate.HTML
	Footer   htmltemplate.HTML
}
