package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ClientsTableSchema = `
	CREATE TABLE IF NOT EXISTS clients (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		industry VARCHAR,
		size VARCHAR,
		location VARCHAR
	);
`
const PickupsTableSchema = `
	CREATE TABLE IF NOT EXISTS pickups (
		id VARCHAR NOT NULL,
		client_id VARCHAR NOT NULL,
		pickup_date TIMESTAMP NOT NULL,
		location VARCHAR,
		weight_kg DOUBLE NOT NULL DEFAULT 0,
		device_count INTEGER NOT NULL DEFAULT 0,
		status VARCHAR,
		PRIMARY KEY (client_id, id)
	);
`
const AssetsTableSchema = `
	CREATE TABLE IF NOT EXISTS assets (
		id VARCHAR NOT NULL,
		client_id VARCHAR NOT NULL,
		pickup_id VARCHAR NOT NULL,
		category VARCHAR NOT NULL,
		manufacturer VARCHAR,
		model VARCHAR,
		serial_number VARCHAR,
		weight_kg DOUBLE NOT NULL DEFAULT 0,
		condition VARCHAR,
		disposition VARCHAR NOT NULL,
		data_bearing BOOLEAN NOT NULL DEFAULT FALSE,
		destruction_method VARCHAR,
		certificate_id VARCHAR,
		processed_at TIMESTAMP NULL,
		resale_value DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (client_id, id)
	);
`
const ProcessingTableSchema = `
	CREATE TABLE IF NOT EXISTS processing_records (
		id VARCHAR NOT NULL,
		client_id VARCHAR NOT NULL,
		asset_id VARCHAR,
		processed_on TIMESTAMP NOT NULL,
		facility VARCHAR,
		stage VARCHAR,
		disposition VARCHAR,
		weight_kg DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (client_id, id)
	);
`
const LedgerTableSchema = `
	CREATE TABLE IF NOT EXISTS ledger_entries (
		client_id VARCHAR NOT NULL,
		entry_date TIMESTAMP NOT NULL,
		kind VARCHAR NOT NULL,
		amount DOUBLE NOT NULL
	);
`
const MetricsTableSchema = `
	CREATE TABLE IF NOT EXISTS environmental_metrics (
		client_id VARCHAR NOT NULL,
		recorded_on TIMESTAMP NOT NULL,
		metric VARCHAR NOT NULL,
		category VARCHAR,
		value DOUBLE NOT NULL
	);
`
const ComplianceTableSchema = `
	CREATE TABLE IF NOT EXISTS compliance_records (
		id VARCHAR NOT NULL,
		client_id VARCHAR NOT NULL,
		regulation VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		certificate_id VARCHAR,
		issued_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		PRIMARY KEY (client_id, id)
	);
`
const CommunityTableSchema = `
	CREATE TABLE IF NOT EXISTS community_records (
		id VARCHAR NOT NULL,
		client_id VARCHAR NOT NULL,
		program VARCHAR,
		school VARCHAR,
		country VARCHAR,
		devices_donated INTEGER NOT NULL DEFAULT 0,
		students_reached INTEGER NOT NULL DEFAULT 0,
		donated_on TIMESTAMP NOT NULL,
		PRIMARY KEY (client_id, id)
	);
`

var bootQueries = []string{
	ClientsTableSchema,
	PickupsTableSchema,
	AssetsTableSchema,
	ProcessingTableSchema,
	LedgerTableSchema,
	MetricsTableSchema,
	ComplianceTableSchema,
	CommunityTableSchema,
}

type Settings struct {
	DbPath  string `mapstructure:"db_path"`
	Threads int    `mapstructure:"threads"`
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
