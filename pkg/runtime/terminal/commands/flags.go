package commands

import (
	"context"

	"github.com/de-tools/ewaste-reports/pkg/models/api"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/runtime/app"
	"github.com/spf13/cobra"
)

// AppOpener builds the report pipeline from the root command flags
type AppOpener func(ctx context.Context) (*app.App, error)

// reportFlags are shared by every command that resolves report options
type reportFlags struct {
	start   string
	end     string
	with    []string
	without []string
	filters map[string]string
	format  string
}

func (f *reportFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "First day of the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day of the period (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&f.with, "with", nil, "Sections to add to the report type defaults")
	cmd.Flags().StringSliceVar(&f.without, "without", nil, "Sections to drop from the report type defaults")
	cmd.Flags().StringToStringVar(&f.filters, "filter", nil, "Data filters, e.g. location=Berlin,category=laptop")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: web, html or json")
}

func (f *reportFlags) options() (domain.ReportOptions, error) {
	req := api.ReportRequest{
		StartDate: f.start,
		EndDate:   f.end,
		Format:    domain.ReportFormat(f.format),
	}
	if len(f.with)+len(f.without) > 0 {
		req.Sections = make(map[string]bool, len(f.with)+len(f.without))
		for _, key := range f.with {
			req.Sections[key] = true
		}
		for _, key := range f.without {
			req.Sections[key] = false
		}
	}
	if len(f.filters) > 0 {
		req.Filters = domain.Filters(f.filters)
	}
	return req.Options()
}
