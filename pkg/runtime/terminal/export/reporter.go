package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/report"
)

type TableConfig struct {
	KeyWidth         int
	NameWidth        int
	PagesWidth       int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		KeyWidth:         20,
		NameWidth:        30,
		PagesWidth:       6,
		DescriptionWidth: 60,
	}
}

// Reporter prints catalog listings and previews as fixed-width tables
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const sectionsTmpl = `{{separator}}
{{formatRow "Key" "Name" "Pages" "Description"}}
{{separator}}
{{range .}}{{formatRow .Key .Name (pages .EstimatedPages) (describe .)}}
{{end}}{{separator}}
`

const reportTypesTmpl = `{{separator}}
{{formatRow "Key" "Name" "Max" "Default sections"}}
{{separator}}
{{range .}}{{formatRow .Key .Name .MaxPages (join .DefaultSections)}}
{{end}}{{separator}}
`

const previewTmpl = `
{{.Name}} ({{.ReportType}})
Period: {{.DateRange.Start.Format "2006-01-02"}} to {{.DateRange.End.Format "2006-01-02"}}
Estimated pages: {{pages .EstimatedPages}} of {{.MaxPages}}{{if .ExceedsMaxPages}} (exceeds maximum){{end}}

{{separator}}
{{formatRow "Key" "Name" "Pages" "Description"}}
{{separator}}
{{range .Sections}}{{formatRow .Key .Name (pages .EstimatedPages) (describe .)}}
{{end}}{{separator}}
{{if .Validation.OK}}Selection is valid.{{else}}Selection is invalid:{{end}}
{{range .Validation.Errors}}  error: {{.}}
{{end}}{{range .Validation.Warnings}}  warning: {{.}}
{{end}}`

func (c *Reporter) Sections(sections []domain.SectionDefinition) error {
	return c.execute("sections", sectionsTmpl, sections)
}

func (c *Reporter) ReportTypes(types []domain.ReportTypeDefinition) error {
	return c.execute("report-types", reportTypesTmpl, types)
}

func (c *Reporter) Preview(preview *report.Preview) error {
	return c.execute("preview", previewTmpl, preview)
}

func (c *Reporter) execute(name, text string, data any) error {
	t, err := template.New(name).Funcs(c.funcs()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, data)
}

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(key, name string, pages any, desc string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*v | %-*s |",
				c.config.KeyWidth, truncate(key, c.config.KeyWidth),
				c.config.NameWidth, truncate(name, c.config.NameWidth),
				c.config.PagesWidth, pages,
				c.config.DescriptionWidth, truncate(desc, c.config.DescriptionWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.KeyWidth+2),
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.PagesWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
		"pages": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"join": func(keys []string) string {
			return strings.Join(keys, ", ")
		},
		"describe": func(s domain.SectionDefinition) string {
			if s.Required {
				return "[required] " + s.Description
			}
			return s.Description
		},
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
