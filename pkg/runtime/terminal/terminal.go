package terminal

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/de-tools/ewaste-reports/pkg/runtime/app"
	"github.com/de-tools/ewaste-reports/pkg/runtime/terminal/commands"
	"github.com/de-tools/ewaste-reports/pkg/runtime/terminal/export"
	"github.com/de-tools/ewaste-reports/pkg/services/source"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry source.Registry
	reporter *export.Reporter
	summary  *Reporter
	output   io.Writer
	errOut   io.Writer
	rootCmd  *cobra.Command

	appOpts app.Options
	verbose bool
}

// Options contain configuration for the CLI
type Options struct {
	Registry source.Registry
	Output   io.Writer
	// ErrOutput receives logs and generation summaries
	ErrOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Registry == nil {
		opts.Registry = source.NewDefaultRegistry()
	}

	cli := &CLI{
		registry: opts.Registry,
		reporter: export.NewReporter(opts.Output),
		summary:  NewReporter(opts.ErrOutput),
		output:   opts.Output,
		errOut:   opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the command tree with the given arguments, mainly for tests.
func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ewaste-reports",
		Short:         "Generate e-waste program reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.InfoLevel
			if cli.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.errOut}).
				Level(level).
				With().Timestamp().Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}
	cmd.SetOut(cli.output)
	cmd.SetErr(cli.errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&cli.appOpts.ConfigPath, "config", "", "Path to a settings file (yaml, json or toml)")
	flags.StringVar(&cli.appOpts.Environment, "env", "", "Named environment to apply, e.g. staging")
	flags.StringVar(&cli.appOpts.EnvironmentsPath, "environments", "", "Path to the environments ini file")
	flags.StringVar(&cli.appOpts.Source, "source", source.Sample, "Data source: "+strings.Join(cli.registry.List(), ", "))
	flags.StringVar(&cli.appOpts.Location, "location", "", "Database path or profile file for the data source")
	flags.StringVar(&cli.appOpts.Schema, "schema", "", "Schema that holds the program tables")
	flags.BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewGenerateCmd(cli.openApp, cli.summary.Handle))
	cmd.AddCommand(commands.NewPreviewCmd(cli.openApp, cli.reporter))
	cmd.AddCommand(commands.NewSectionsCmd(cli.reporter))
	cmd.AddCommand(commands.NewTypesCmd(cli.reporter))
	cmd.AddCommand(commands.NewSeedCmd())

	return cmd
}

func (cli *CLI) openApp(ctx context.Context) (*app.App, error) {
	opts := cli.appOpts
	opts.Registry = cli.registry
	return app.New(ctx, opts)
}

