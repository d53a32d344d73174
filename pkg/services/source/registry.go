// Package source wires the raw data stores behind named factories.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/processor"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb"
	"github.com/de-tools/ewaste-reports/pkg/store/sample"
	"github.com/de-tools/ewaste-reports/pkg/store/snapshot"
	sqlstore "github.com/de-tools/ewaste-reports/pkg/store/sql"
	"github.com/de-tools/ewaste-reports/pkg/store/warehouse"
)

const (
	Sample     = "sample"
	DuckDB     = "duckdb"
	Databricks = "databricks"
	Snowflake  = "snowflake"
	S3         = "s3"
)

// Config selects and locates a data source.
// Location is a DuckDB path for duckdb and a profile file for the remote sources.
type Config struct {
	Location string
	Schema   string
	Settings domain.Settings
}

// Source is a DataSource that may hold a connection to release
type Source interface {
	processor.DataSource
	io.Closer
}

// Factory creates a Source from its config
type Factory func(ctx context.Context, cfg Config) (Source, error)

// Registry manages data source factories
type Registry interface {
	// Register adds a new data source factory
	Register(name string, factory Factory) error
	// Create instantiates the named data source
	Create(ctx context.Context, name string, cfg Config) (Source, error)
	// List returns the registered source names in order
	List() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]Factory),
	}
}

// NewDefaultRegistry returns a registry holding every built-in source.
func NewDefaultRegistry() Registry {
	r := NewRegistry()
	for name, factory := range map[string]Factory{
		Sample:     SampleFactory,
		DuckDB:     DuckDBFactory,
		Databricks: DatabricksFactory,
		Snowflake:  SnowflakeFactory,
		S3:         SnapshotFactory,
	} {
		_ = r.Register(name, factory)
	}
	return r
}

func (r *registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("source name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("source %q is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, name string, cfg Config) (Source, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("source %q is not registered", name)
	}

	return factory(ctx, cfg)
}

func (r *registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type nopCloser struct {
	processor.DataSource
}

func (nopCloser) Close() error { return nil }

// dbSource owns the connection behind a RawStore
type dbSource struct {
	*sqlstore.RawStore
	db *sql.DB
}

func (s *dbSource) Close() error { return s.db.Close() }

func newDBSource(db *sql.DB, cfg Config) (Source, error) {
	store, err := sqlstore.NewRawStore(db, sqlstore.RawStoreSettings{
		ClientID: cfg.Settings.ClientID,
		Schema:   cfg.Schema,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &dbSource{RawStore: store, db: db}, nil
}

func SampleFactory(_ context.Context, cfg Config) (Source, error) {
	return nopCloser{sample.NewGenerator(sample.Settings{
		ClientID:   cfg.Settings.ClientID,
		ClientName: cfg.Settings.ClientName,
		Industry:   cfg.Settings.ClientIndustry,
	})}, nil
}

func DuckDBFactory(_ context.Context, cfg Config) (Source, error) {
	if cfg.Location == "" {
		return nil, fmt.Errorf("duckdb source requires a database path")
	}
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.Location})
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return newDBSource(db, cfg)
}

func DatabricksFactory(_ context.Context, cfg Config) (Source, error) {
	profile, err := warehouse.LoadDatabricksConfig(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := warehouse.OpenDatabricks(*profile)
	if err != nil {
		return nil, err
	}
	return newDBSource(db, cfg)
}

func SnowflakeFactory(_ context.Context, cfg Config) (Source, error) {
	profile, err := warehouse.LoadSnowflakeConfig(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	db, err := warehouse.OpenSnowflake(*profile)
	if err != nil {
		return nil, err
	}
	return newDBSource(db, cfg)
}

func SnapshotFactory(ctx context.Context, cfg Config) (Source, error) {
	settings, err := snapshot.LoadSettings(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if settings.ClientID == "" {
		settings.ClientID = cfg.Settings.ClientID
	}
	src, err := snapshot.NewSourceFromProfile(ctx, settings)
	if err != nil {
		return nil, err
	}
	return nopCloser{src}, nil
}
