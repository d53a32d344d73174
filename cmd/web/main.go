package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/ewaste-reports/pkg/runtime/app"
	"github.com/de-tools/ewaste-reports/pkg/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var opts app.Options

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the report web server",
		RunE:  runServer,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a settings file")
	flags.StringVar(&opts.Environment, "env", "", "Named environment to apply")
	flags.StringVar(&opts.EnvironmentsPath, "environments", "", "Path to the environments ini file")
	flags.StringVar(&opts.Source, "source", "", "Data source (default is sample)")
	flags.StringVar(&opts.Location, "location", "", "Database path or profile file for the data source")
	flags.StringVar(&opts.Schema, "schema", "", "Schema that holds the program tables")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	pipeline, err := app.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to create report pipeline: %w", err)
	}
	defer pipeline.Close()

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		return fmt.Errorf("missing SERVER_HOST or SERVER_PORT in the environment")
	}

	web := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Generator: pipeline.Generator,
		},
	})
	return web.Start()
}
