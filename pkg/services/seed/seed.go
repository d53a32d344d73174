// Package seed loads generated sample data into a DuckDB record store.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/adapters"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb/records"
	"github.com/rs/zerolog"
)

// Generator produces raw program data for one client and period
type Generator interface {
	Generate(clientID string, dr domain.DateRange) *domain.RawData
}

// Summary counts the rows written by a seeding run
type Summary struct {
	ClientID string
	Months   int
	Pickups  int
	Assets   int
}

type Seeder struct {
	db        *sql.DB
	store     records.Store
	generator Generator
}

func NewSeeder(db *sql.DB, store records.Store, generator Generator) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if store == nil || generator == nil {
		return nil, fmt.Errorf("store and generator are required")
	}
	return &Seeder{db: db, store: store, generator: generator}, nil
}

// Seed replaces the client's rows with data generated one calendar month at a
// time, so ledger and metric rows stay bookable per month. Compliance records
// describe the state at the end of the range and are written once.
func (s *Seeder) Seed(ctx context.Context, clientID string, dr domain.DateRange) (Summary, error) {
	if clientID == "" {
		return Summary{}, fmt.Errorf("client id is required")
	}
	if dr.End.Before(dr.Start) {
		return Summary{}, fmt.Errorf("date range ends before it starts")
	}

	logger := zerolog.Ctx(ctx).With().Str("client_id", clientID).Logger()
	summary := Summary{ClientID: clientID}
	chunks := Months(dr)

	err := duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, clientID); err != nil {
			return err
		}
		for i, chunk := range chunks {
			raw := s.generator.Generate(clientID, chunk)
			if i < len(chunks)-1 {
				raw.ComplianceRecords = nil
			}
			if err := s.store.Add(ctx, adapters.MapRawDataToDataset(raw, chunk.Start)); err != nil {
				return fmt.Errorf("seed %s: %w", chunk.Start.Format("2006-01"), err)
			}
			summary.Pickups += len(raw.Pickups)
			summary.Assets += len(raw.Assets)
			logger.Debug().
				Time("month", chunk.Start).
				Int("pickups", len(raw.Pickups)).
				Msg("month seeded")
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	summary.Months = len(chunks)
	logger.Info().
		Int("months", summary.Months).
		Int("pickups", summary.Pickups).
		Int("assets", summary.Assets).
		Msg("sample data seeded")
	return summary, nil
}

// Months splits an inclusive range at calendar month boundaries.
func Months(dr domain.DateRange) []domain.DateRange {
	var out []domain.DateRange
	for start := dr.Start; !start.After(dr.End); {
		y, m, _ := start.Date()
		next := time.Date(y, m+1, 1, 0, 0, 0, 0, start.Location())
		end := next.AddDate(0, 0, -1)
		if end.After(dr.End) {
			end = dr.End
		}
		out = append(out, domain.DateRange{Start: start, End: end})
		start = next
	}
	return out
}
