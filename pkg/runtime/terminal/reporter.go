package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
)

// Reporter prints a short summary of a generated report
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(meta domain.ReportMetadata) error {
	tmpl := `
{{.ReportName}} ({{.ReportType}})
Report ID: {{.ReportID}}
Client: {{.ClientName}}
Period: {{.DateRange.Start.Format "2006-01-02"}} to {{.DateRange.End.Format "2006-01-02"}}
Pages: {{.TotalPages}} (estimated {{printf "%.1f" .EstimatedPages}})
Sections:
{{range .SectionsIncluded}}- {{.}}
{{end}}`
	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, meta)
}
