package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/export"
	"github.com/spf13/cobra"
)

type GenerateCmd struct {
	open      AppOpener
	summarize func(domain.ReportMetadata) error
	flags     reportFlags
	output    string
}

func NewGenerateCmd(open AppOpener, summarize func(domain.ReportMetadata) error) *cobra.Command {
	gc := &GenerateCmd{open: open, summarize: summarize}
	cmd := &cobra.Command{
		Use:   "generate <report-type>",
		Short: "Generate a report document",
		Args:  cobra.ExactArgs(1),
		RunE:  gc.run,
	}

	gc.flags.bind(cmd)
	cmd.Flags().StringVarP(&gc.output, "output", "o", "", "File to write the document to (default is stdout)")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts, err := gc.flags.options()
	if err != nil {
		return err
	}
	if opts.Format != "" {
		if _, err := export.ContentType(opts.Format); err != nil {
			return err
		}
	}

	a, err := gc.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Generator.Generate(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to generate %s report: %w", args[0], err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if gc.output != "" {
		f, err := os.Create(gc.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if gc.summarize == nil {
		return nil
	}
	return gc.summarize(result.Metadata)
}
