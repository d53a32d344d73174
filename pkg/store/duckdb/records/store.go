package records

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/ewaste-reports/pkg/models/store"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb"
)

// Store writes client datasets into the DuckDB e-waste tables.
// Writes join the transaction carried by ctx when there is one.
type Store interface {
	Add(ctx context.Context, ds store.Dataset) error
	Delete(ctx context.Context, clientID string) error
	Replace(ctx context.Context, ds store.Dataset) error
}

type recordStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &recordStore{db: db}, nil
}

// clientTables lists every table holding per-client rows
var clientTables = []string{
	"pickups",
	"assets",
	"processing_records",
	"ledger_entries",
	"environmental_metrics",
	"compliance_records",
	"community_records",
}

func (s *recordStore) Add(ctx context.Context, ds store.Dataset) error {
	if ds.Client.ID == "" {
		return fmt.Errorf("client id is required")
	}
	id := ds.Client.ID

	err := s.insert(ctx, "client",
		`INSERT OR REPLACE INTO clients (id, name, industry, size, location) VALUES (?, ?, ?, ?, ?)`,
		[][]any{{id, ds.Client.Name, ds.Client.Industry, ds.Client.Size, ds.Client.Location}})
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(ds.Pickups))
	for _, p := range ds.Pickups {
		rows = append(rows, []any{p.ID, id, p.PickupDate, p.Location, p.WeightKg, p.DeviceCount, p.Status})
	}
	err = s.insert(ctx, "pickup", `
		INSERT INTO pickups (id, client_id, pickup_date, location, weight_kg, device_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, rows)
	if err != nil {
		return err
	}

	rows = make([][]any, 0, len(ds.Assets))
	for _, a := range ds.Assets {
		var processedAt any
		if a.ProcessedAt != nil {
			processedAt = *a.ProcessedAt
		}
		rows = append(rows, []any{
			a.ID, id, a.PickupID, a.Category, a.Manufacturer, a.Model, a.SerialNumber,
			a.WeightKg, a.Condition, a.Disposition, a.DataBearing, a.DestructionMethod,
			a.CertificateID, processedAt, a.ResaleValue,
		})
	}
	err = s.insert(ctx, "asset", `
		INSERT INTO assets (
			id, client_id, pickup_id, category, manufacturer, model, serial_number,
			weight_kg, condition, disposition, data_bearing, destruction_method,
			certificate_id, processed_at, resale_value
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows)
	if err != nil {
		return err
	}

	rows = make([][]any, 0, len(ds.Processing))
	for _, r := range ds.Processing {
		rows = append(rows, []any{r.ID, id, r.AssetID, r.ProcessedOn, r.Facility, r.Stage, r.Disposition, r.WeightKg})
	}
	err = s.insert(ctx, "processing record", `
		INSERT INTO processing_records (id, client_id, asset_id, processed_on, facility, stage, disposition, weight_kg)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, rows)
	if err != nil {
		return err
	}

	rows = make([][]any, 0, len(ds.Ledger))
	for _, e := range ds.Ledger {
		rows = append(rows, []any{id, e.EntryDate, e.Kind, e.Amount})
	}
	err = s.insert(ctx, "ledger entry",
		`INSERT INTO ledger_entries (client_id, entry_date, kind, amount) VALUES (?, ?, ?, ?)`, rows)
	if err != nil {
		return err
	}

	rows = make([][]any, 0, len(ds.Metrics))
	for _, m := range ds.Metrics {
		var category any
		if m.Category != "" {
			category = m.Category
		}
		rows = append(rows, []any{id, m.RecordedOn, m.Metric, category, m.Value})
	}
	err = s.insert(ctx, "environmental metric",
		`INSERT INTO environmental_metrics (client_id, recorded_on, metric, category, value) VALUES (?, ?, ?, ?, ?)`, rows)
	if err != nil {
		return err
	}

	rows = make([][]any, 0, len(ds.Compliance))
	for _, r := range ds.Compliance {
		rows = append(rows, []any{r.ID, id, r.Regulation, r.Status, r.CertificateID, r.IssuedAt, r.ExpiresAt})
	}
	err = s.insert(ctx, "compliance record", `
		INSERT INTO compliance_records (id, client_id, regulation, status, certificate_id, issued_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, rows)
	if err != nil {
		return err
	}

	rows = make([][]any, 0, len(ds.Community))
	for _, r := range ds.Community {
		rows = append(rows, []any{r.ID, id, r.Program, r.School, r.Country, r.DevicesDonated, r.StudentsReached, r.DonatedOn})
	}
	return s.insert(ctx, "community record", `
		INSERT INTO community_records (id, client_id, program, school, country, devices_donated, students_reached, donated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, rows)
}

func (s *recordStore) Delete(ctx context.Context, clientID string) error {
	for _, table := range clientTables {
		if err := s.exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE client_id = ?`, table), clientID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if err := s.exec(ctx, `DELETE FROM clients WHERE id = ?`, clientID); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// Replace swaps every row of the dataset's client in one transaction.
func (s *recordStore) Replace(ctx context.Context, ds store.Dataset) error {
	if duckdb.GetTransaction(ctx) != nil {
		if err := s.Delete(ctx, ds.Client.ID); err != nil {
			return err
		}
		return s.Add(ctx, ds)
	}
	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.Delete(ctx, ds.Client.ID); err != nil {
			return err
		}
		return s.Add(ctx, ds)
	})
}

func (s *recordStore) insert(ctx context.Context, what, query string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := duckdb.Executor(ctx, s.db).PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare %s statement: %w", what, err)
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", what, err)
		}
	}
	return nil
}

func (s *recordStore) exec(ctx context.Context, query string, args ...any) error {
	stmt, err := duckdb.Executor(ctx, s.db).PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.ExecContext(ctx, args...)
	return err
}
