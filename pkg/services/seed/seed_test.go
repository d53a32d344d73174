package seed

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb/records"
	"github.com/de-tools/ewaste-reports/pkg/store/sample"
	sqlstore "github.com/de-tools/ewaste-reports/pkg/store/sql"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonths(t *testing.T) {
	tests := []struct {
		name string
		in   domain.DateRange
		want []domain.DateRange
	}{
		{
			name: "quarter",
			in:   domain.DateRange{Start: day(2025, time.April, 1), End: day(2025, time.June, 30)},
			want: []domain.DateRange{
				{Start: day(2025, time.April, 1), End: day(2025, time.April, 30)},
				{Start: day(2025, time.May, 1), End: day(2025, time.May, 31)},
				{Start: day(2025, time.June, 1), End: day(2025, time.June, 30)},
			},
		},
		{
			name: "partial months across a year end",
			in:   domain.DateRange{Start: day(2024, time.December, 15), End: day(2025, time.January, 10)},
			want: []domain.DateRange{
				{Start: day(2024, time.December, 15), End: day(2024, time.December, 31)},
				{Start: day(2025, time.January, 1), End: day(2025, time.January, 10)},
			},
		},
		{
			name: "single day",
			in:   domain.DateRange{Start: day(2025, time.March, 3), End: day(2025, time.March, 3)},
			want: []domain.DateRange{{Start: day(2025, time.March, 3), End: day(2025, time.March, 3)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Months(tt.in))
		})
	}
}

func TestSeeder_Seed_ShouldBeReadableThroughRawStore(t *testing.T) {
	ctx := context.Background()
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := records.NewStore(db)
	require.NoError(t, err)
	gen := sample.NewGenerator(sample.Settings{})
	seeder, err := NewSeeder(db, store, gen)
	require.NoError(t, err)

	quarter := domain.DateRange{Start: day(2025, time.April, 1), End: day(2025, time.June, 30)}

	// When: seeding twice replaces rather than duplicates
	_, err = seeder.Seed(ctx, "acme", quarter)
	require.NoError(t, err)
	summary, err := seeder.Seed(ctx, "acme", quarter)
	require.NoError(t, err)

	// Then
	var pickups, assets int
	for _, month := range Months(quarter) {
		raw := gen.Generate("acme", month)
		pickups += len(raw.Pickups)
		assets += len(raw.Assets)
	}
	assert.Equal(t, Summary{ClientID: "acme", Months: 3, Pickups: pickups, Assets: assets}, summary)

	raws, err := sqlstore.NewRawStore(db, sqlstore.RawStoreSettings{ClientID: "acme"})
	require.NoError(t, err)
	raw, err := raws.FetchRaw(ctx, quarter, nil)
	require.NoError(t, err)
	assert.Len(t, raw.Pickups, pickups)
	assert.Len(t, raw.Assets, assets)
	assert.Len(t, raw.ComplianceRecords, len(gen.Generate("acme", Months(quarter)[2]).ComplianceRecords))
	assert.Equal(t, "Sample Client", raw.Client.Name)
}

func TestSeeder_Errors(t *testing.T) {
	ctx := context.Background()
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store, err := records.NewStore(db)
	require.NoError(t, err)

	_, err = NewSeeder(nil, store, sample.NewGenerator(sample.Settings{}))
	assert.Error(t, err)
	_, err = NewSeeder(db, nil, sample.NewGenerator(sample.Settings{}))
	assert.Error(t, err)

	seeder, err := NewSeeder(db, store, sample.NewGenerator(sample.Settings{}))
	require.NoError(t, err)

	_, err = seeder.Seed(ctx, "", domain.DateRange{Start: day(2025, time.April, 1), End: day(2025, time.April, 30)})
	assert.EqualError(t, err, "client id is required")

	_, err = seeder.Seed(ctx, "acme", domain.DateRange{Start: day(2025, time.April, 30), End: day(2025, time.April, 1)})
	assert.EqualError(t, err, "date range ends before it starts")
}
