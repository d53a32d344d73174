package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/adapters"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/models/store"
	"github.com/rs/zerolog"
)

type RawStoreSettings struct {
	// ClientID is used when the request carries no client_id filter
	ClientID string
	// Schema prefixes every table, e.g. "main" or "ewaste.reporting"
	Schema string
}

// RawStore reads report raw data from the e-waste tables of any database/sql
// driver that accepts ? placeholders (DuckDB, Databricks SQL, Snowflake).
type RawStore struct {
	db       *sql.DB
	settings RawStoreSettings
}

func NewRawStore(db *sql.DB, settings RawStoreSettings) (*RawStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &RawStore{db: db, settings: settings}, nil
}

type period struct {
	clientID string
	from     time.Time
	to       time.Time
	location string
	category string
}

func (s *RawStore) FetchRaw(ctx context.Context, dr domain.DateRange, filters domain.Filters) (*domain.RawData, error) {
	logger := zerolog.Ctx(ctx)

	p := period{
		clientID: s.settings.ClientID,
		from:     dr.Start,
		to:       dr.EndExclusive(),
		location: filters[domain.FilterLocation],
		category: filters[domain.FilterCategory],
	}
	if id := filters[domain.FilterClientID]; id != "" {
		p.clientID = id
	}
	if p.clientID == "" {
		return nil, fmt.Errorf("client id is required")
	}

	var ds store.Dataset
	var err error
	if ds.Client, err = s.client(ctx, p.clientID); err != nil {
		return nil, err
	}
	if ds.Pickups, err = s.pickups(ctx, p); err != nil {
		return nil, err
	}
	if ds.Assets, err = s.assets(ctx, p); err != nil {
		return nil, err
	}
	if ds.Processing, err = s.processing(ctx, p); err != nil {
		return nil, err
	}
	if ds.Ledger, err = s.ledger(ctx, p); err != nil {
		return nil, err
	}
	if ds.Metrics, err = s.metrics(ctx, p); err != nil {
		return nil, err
	}
	if ds.Compliance, err = s.compliance(ctx, p); err != nil {
		return nil, err
	}
	if ds.Community, err = s.community(ctx, p); err != nil {
		return nil, err
	}

	raw := adapters.MapDatasetToRawData(ds)

	prev := p
	prev.to = p.from
	prev.from = p.from.Add(-p.to.Sub(p.from))
	if raw.Previous, err = s.totals(ctx, prev); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("client_id", p.clientID).
		Time("from", p.from).
		Time("to", p.to).
		Int("pickups", len(raw.Pickups)).
		Int("assets", len(raw.Assets)).
		Msg("raw data loaded")
	return raw, nil
}

func (s *RawStore) table(name string) string {
	if s.settings.Schema == "" {
		return name
	}
	return s.settings.Schema + "." + name
}

func (s *RawStore) client(ctx context.Context, id string) (store.ClientRecord, error) {
	query := fmt.Sprintf(`SELECT id, name, industry, size, location FROM %s WHERE id = ?`, s.table("clients"))

	var c store.ClientRecord
	var industry, size, location sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &industry, &size, &location)
	if err == sql.ErrNoRows {
		return c, fmt.Errorf("client %q not found", id)
	}
	if err != nil {
		return c, fmt.Errorf("query client: %w", err)
	}
	c.Industry, c.Size, c.Location = industry.String, size.String, location.String
	return c, nil
}

func (s *RawStore) pickups(ctx context.Context, p period) ([]store.PickupRecord, error) {
	where, args := pickupScope("", p)
	query := fmt.Sprintf(`
		SELECT id, pickup_date, location, weight_kg, device_count, status
		FROM %s
		WHERE %s
		ORDER BY pickup_date, id`, s.table("pickups"), where)

	var out []store.PickupRecord
	err := s.query(ctx, "pickups", query, args, func(rows *sql.Rows) error {
		var r store.PickupRecord
		var location, status sql.NullString
		if err := rows.Scan(&r.ID, &r.PickupDate, &location, &r.WeightKg, &r.DeviceCount, &status); err != nil {
			return err
		}
		r.ClientID, r.Location, r.Status = p.clientID, location.String, status.String
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *RawStore) assets(ctx context.Context, p period) ([]store.AssetRecord, error) {
	where, args := pickupScope("p.", p)
	if p.category != "" {
		where += " AND a.category = ?"
		args = append(args, p.category)
	}
	query := fmt.Sprintf(`
		SELECT a.id, a.pickup_id, a.category, a.manufacturer, a.model, a.serial_number,
			a.weight_kg, a.condition, a.disposition, a.data_bearing, a.destruction_method,
			a.certificate_id, a.processed_at, a.resale_value
		FROM %s a
		JOIN %s p ON p.id = a.pickup_id
		WHERE %s
		ORDER BY a.id`, s.table("assets"), s.table("pickups"), where)

	var out []store.AssetRecord
	err := s.query(ctx, "assets", query, args, func(rows *sql.Rows) error {
		var r store.AssetRecord
		var manufacturer, model, serial, condition, destruction, certificate sql.NullString
		var processedAt sql.NullTime
		if err := rows.Scan(
			&r.ID, &r.PickupID, &r.Category, &manufacturer, &model, &serial,
			&r.WeightKg, &condition, &r.Disposition, &r.DataBearing, &destruction,
			&certificate, &processedAt, &r.ResaleValue,
		); err != nil {
			return err
		}
		r.ClientID = p.clientID
		r.Manufacturer, r.Model, r.SerialNumber = manufacturer.String, model.String, serial.String
		r.Condition, r.DestructionMethod, r.CertificateID = condition.String, destruction.String, certificate.String
		if processedAt.Valid {
			t := processedAt.Time
			r.ProcessedAt = &t
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *RawStore) processing(ctx context.Context, p period) ([]store.ProcessingRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, asset_id, processed_on, facility, stage, disposition, weight_kg
		FROM %s
		WHERE client_id = ? AND processed_on >= ? AND processed_on < ?
		ORDER BY processed_on, id`, s.table("processing_records"))

	var out []store.ProcessingRecord
	err := s.query(ctx, "processing records", query, []any{p.clientID, p.from, p.to}, func(rows *sql.Rows) error {
		var r store.ProcessingRecord
		if err := rows.Scan(&r.ID, &r.AssetID, &r.ProcessedOn, &r.Facility, &r.Stage, &r.Disposition, &r.WeightKg); err != nil {
			return err
		}
		r.ClientID = p.clientID
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *RawStore) ledger(ctx context.Context, p period) ([]store.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT kind, SUM(amount)
		FROM %s
		WHERE client_id = ? AND entry_date >= ? AND entry_date < ?
		GROUP BY kind`, s.table("ledger_entries"))

	var out []store.LedgerEntry
	err := s.query(ctx, "ledger", query, []any{p.clientID, p.from, p.to}, func(rows *sql.Rows) error {
		e := store.LedgerEntry{ClientID: p.clientID, EntryDate: p.from}
		if err := rows.Scan(&e.Kind, &e.Amount); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

func (s *RawStore) metrics(ctx context.Context, p period) ([]store.MetricRecord, error) {
	query := fmt.Sprintf(`
		SELECT metric, category, SUM(value)
		FROM %s
		WHERE client_id = ? AND recorded_on >= ? AND recorded_on < ?
		GROUP BY metric, category`, s.table("environmental_metrics"))

	var out []store.MetricRecord
	err := s.query(ctx, "environmental metrics", query, []any{p.clientID, p.from, p.to}, func(rows *sql.Rows) error {
		m := store.MetricRecord{ClientID: p.clientID, RecordedOn: p.from}
		var category sql.NullString
		if err := rows.Scan(&m.Metric, &category, &m.Value); err != nil {
			return err
		}
		m.Category = category.String
		out = append(out, m)
		return nil
	})
	return out, err
}

// compliance returns certificates in force at any point of the period
func (s *RawStore) compliance(ctx context.Context, p period) ([]store.ComplianceRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, regulation, status, certificate_id, issued_at, expires_at
		FROM %s
		WHERE client_id = ? AND issued_at < ? AND expires_at >= ?
		ORDER BY regulation, id`, s.table("compliance_records"))

	var out []store.ComplianceRecord
	err := s.query(ctx, "compliance records", query, []any{p.clientID, p.to, p.from}, func(rows *sql.Rows) error {
		r := store.ComplianceRecord{ClientID: p.clientID}
		var certificate sql.NullString
		if err := rows.Scan(&r.ID, &r.Regulation, &r.Status, &certificate, &r.IssuedAt, &r.ExpiresAt); err != nil {
			return err
		}
		r.CertificateID = certificate.String
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *RawStore) community(ctx context.Context, p period) ([]store.CommunityRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, program, school, country, devices_donated, students_reached, donated_on
		FROM %s
		WHERE client_id = ? AND donated_on >= ? AND donated_on < ?
		ORDER BY donated_on, id`, s.table("community_records"))

	var out []store.CommunityRecord
	err := s.query(ctx, "community records", query, []any{p.clientID, p.from, p.to}, func(rows *sql.Rows) error {
		r := store.CommunityRecord{ClientID: p.clientID}
		if err := rows.Scan(&r.ID, &r.Program, &r.School, &r.Country, &r.DevicesDonated, &r.StudentsReached, &r.DonatedOn); err != nil {
			return err
		}
		out = append(out, r)
		return nil
	})
	return out, err
}

// totals computes headline figures for a period; nil when it has no pickups.
func (s *RawStore) totals(ctx context.Context, p period) (*domain.PeriodTotals, error) {
	where, args := pickupScope("p.", p)
	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(SUM(p.weight_kg), 0), CAST(COALESCE(SUM(p.device_count), 0) AS BIGINT)
		FROM %s p
		WHERE %s`, s.table("pickups"), where)

	var totals domain.PeriodTotals
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&totals.PickupCount, &totals.TotalWeightKg, &totals.DeviceCount); err != nil {
		return nil, fmt.Errorf("query previous period pickups: %w", err)
	}
	if totals.PickupCount == 0 {
		return nil, nil
	}

	query = fmt.Sprintf(`
		SELECT COUNT(*), CAST(COALESCE(SUM(CASE WHEN a.disposition <> 'landfill' THEN 1 ELSE 0 END), 0) AS BIGINT)
		FROM %s a
		JOIN %s p ON p.id = a.pickup_id
		WHERE %s`, s.table("assets"), s.table("pickups"), where)
	var assets, diverted int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&assets, &diverted); err != nil {
		return nil, fmt.Errorf("query previous period assets: %w", err)
	}
	if assets > 0 {
		totals.DeviceCount = assets
		totals.DiversionRate = float64(diverted) / float64(assets) * 100
	}

	query = fmt.Sprintf(`
		SELECT COALESCE(SUM(value), 0)
		FROM %s
		WHERE client_id = ? AND metric = ? AND recorded_on >= ? AND recorded_on < ?`, s.table("environmental_metrics"))
	if err := s.db.QueryRowContext(ctx, query, p.clientID, store.MetricCarbonAvoided, p.from, p.to).Scan(&totals.CarbonAvoidedKg); err != nil {
		return nil, fmt.Errorf("query previous period carbon: %w", err)
	}
	return &totals, nil
}

func (s *RawStore) query(ctx context.Context, what, query string, args []any, scan func(*sql.Rows) error) error {
	logger := zerolog.Ctx(ctx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", what, err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			logger.Warn().Err(err).Str("query", what).Msg("failed to close rows")
		}
	}(rows)

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan %s: %w", what, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", what, err)
	}
	return nil
}

// pickupScope builds the shared pickup predicate; prefix qualifies the pickup columns.
func pickupScope(prefix string, p period) (string, []any) {
	clauses := []string{
		prefix + "client_id = ?",
		prefix + "pickup_date >= ?",
		prefix + "pickup_date < ?",
	}
	args := []any{p.clientID, p.from, p.to}
	if p.location != "" {
		clauses = append(clauses, prefix+"location = ?")
		args = append(args, p.location)
	}
	return strings.Join(clauses, " AND "), args
}
