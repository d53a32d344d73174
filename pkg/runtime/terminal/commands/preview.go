package commands

import (
	"fmt"

	"github.com/de-tools/ewaste-reports/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type PreviewCmd struct {
	open     AppOpener
	reporter *export.Reporter
	flags    reportFlags
}

func NewPreviewCmd(open AppOpener, reporter *export.Reporter) *cobra.Command {
	pc := &PreviewCmd{open: open, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "preview <report-type>",
		Short: "Show the sections, page estimate and validation of a report without generating it",
		Args:  cobra.ExactArgs(1),
		RunE:  pc.run,
	}

	pc.flags.bind(cmd)

	return cmd
}

func (pc *PreviewCmd) run(cmd *cobra.Command, args []string) error {
	opts, err := pc.flags.options()
	if err != nil {
		return err
	}

	a, err := pc.open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	preview, err := a.Generator.Preview(args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to preview %s report: %w", args[0], err)
	}
	return pc.reporter.Preview(preview)
}
