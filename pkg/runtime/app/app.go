// Package app assembles the report pipeline shared by the CLI and the web server.
package app

import (
	"context"
	"fmt"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/config"
	"github.com/de-tools/ewaste-reports/pkg/services/format"
	"github.com/de-tools/ewaste-reports/pkg/services/processor"
	"github.com/de-tools/ewaste-reports/pkg/services/report"
	"github.com/de-tools/ewaste-reports/pkg/services/source"
	"github.com/de-tools/ewaste-reports/pkg/services/template"
	"github.com/rs/zerolog"
)

type Options struct {
	// ConfigPath is an optional settings file; env vars apply either way
	ConfigPath string
	// EnvironmentsPath is an optional ini file of environment overrides
	EnvironmentsPath string
	Environment      string
	// Source names a registered data source, "sample" when empty
	Source   string
	Location string
	Schema   string
	Registry source.Registry
}

type App struct {
	Generator *report.Generator
	Resolver  *config.Resolver
	Processor *processor.Processor
	Source    source.Source
}

func New(ctx context.Context, opts Options) (*App, error) {
	logger := zerolog.Ctx(ctx)

	settings, err := config.LoadSettings(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	var env *domain.Overrides
	if opts.Environment != "" {
		if opts.EnvironmentsPath == "" {
			return nil, fmt.Errorf("environment %q requires an environments file", opts.Environment)
		}
		environments, err := config.NewEnvironmentRegistry(opts.EnvironmentsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load environments: %w", err)
		}
		if env, err = environments.Overrides(opts.Environment); err != nil {
			return nil, err
		}
	}
	resolver := config.NewResolver(settings, config.WithEnvironment(env))
	effective := resolver.Settings()

	name := opts.Source
	if name == "" {
		name = source.Sample
	}
	registry := opts.Registry
	if registry == nil {
		registry = source.NewDefaultRegistry()
	}
	src, err := registry.Create(ctx, name, source.Config{
		Location: opts.Location,
		Schema:   opts.Schema,
		Settings: effective,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", name, err)
	}

	engine, err := template.NewDefaultEngine(template.WithFormatter(format.ForLocale(effective.Locale)))
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	proc := processor.NewProcessor(src)
	logger.Info().
		Str("source", name).
		Str("environment", opts.Environment).
		Str("client_id", effective.ClientID).
		Msg("report pipeline ready")

	return &App{
		Generator: report.NewGenerator(resolver, proc, engine),
		Resolver:  resolver,
		Processor: proc,
		Source:    src,
	}, nil
}

func (a *App) Close() error {
	return a.Source.Close()
}
