package commands

import (
	"github.com/de-tools/ewaste-reports/pkg/runtime/terminal/export"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
	"github.com/spf13/cobra"
)

func NewSectionsCmd(reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List the available report sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reporter.Sections(catalog.Sections())
		},
	}
}

func NewTypesCmd(reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the available report types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reporter.ReportTypes(catalog.ReportTypes())
		},
	}
}
