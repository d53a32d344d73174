package records

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/models/store"
	"github.com/de-tools/ewaste-reports/pkg/store/duckdb"
	sqlstore "github.com/de-tools/ewaste-reports/pkg/store/sql"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: s}
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func dataset() store.Dataset {
	processed := day(time.April, 20)
	return store.Dataset{
		Client: store.ClientRecord{ID: "acme", Name: "Acme Corp", Industry: "technology", Size: "enterprise", Location: "Austin"},
		Pickups: []store.PickupRecord{
			{ID: "p-1", PickupDate: day(time.April, 10), Location: "Austin", WeightKg: 100, DeviceCount: 2, Status: "completed"},
			{ID: "p-0", PickupDate: day(time.February, 5), Location: "Austin", WeightKg: 60, DeviceCount: 1, Status: "completed"},
		},
		Assets: []store.AssetRecord{
			{ID: "a-1", PickupID: "p-1", Category: "laptop", WeightKg: 2, Disposition: "resale", DataBearing: true,
				DestructionMethod: "wipe", CertificateID: "CERT-1", ProcessedAt: &processed, ResaleValue: 120},
			{ID: "a-2", PickupID: "p-1", Category: "monitor", WeightKg: 6, Disposition: "recycle"},
			{ID: "a-0", PickupID: "p-0", Category: "laptop", WeightKg: 2, Disposition: "landfill"},
		},
		Processing: []store.ProcessingRecord{
			{ID: "r-1", AssetID: "a-1", ProcessedOn: processed, Facility: "Austin Hub", Stage: "refurbished", Disposition: "resale", WeightKg: 2},
		},
		Ledger: []store.LedgerEntry{
			{EntryDate: day(time.April, 30), Kind: store.LedgerResale, Amount: 120},
			{EntryDate: day(time.May, 31), Kind: store.LedgerResale, Amount: 30},
			{EntryDate: day(time.May, 31), Kind: store.LedgerProgramCost, Amount: 500},
		},
		Metrics: []store.MetricRecord{
			{RecordedOn: day(time.April, 30), Metric: store.MetricCarbonAvoided, Category: "laptop", Value: 40},
			{RecordedOn: day(time.April, 30), Metric: store.MetricCarbonAvoided, Value: 10},
			{RecordedOn: day(time.February, 28), Metric: store.MetricCarbonAvoided, Value: 25},
		},
		Compliance: []store.ComplianceRecord{
			{ID: "c-1", Regulation: "R2", Status: "compliant", CertificateID: "R2-1", IssuedAt: day(time.January, 1), ExpiresAt: day(time.December, 31)},
			{ID: "c-old", Regulation: "WEEE", Status: "expired", IssuedAt: day(time.January, 1).AddDate(-2, 0, 0), ExpiresAt: day(time.January, 1).AddDate(-1, 0, 0)},
		},
		Community: []store.CommunityRecord{
			{ID: "d-1", Program: "Laptops for Learning", School: "Eastside High", Country: "US", DevicesDonated: 12, StudentsReached: 300, DonatedOn: day(time.June, 1)},
		},
	}
}

func TestNewStore(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestStore_Add_ShouldRoundTripThroughRawStore(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	// Given
	require.NoError(t, f.store.Add(ctx, dataset()))
	raws, err := sqlstore.NewRawStore(f.db, sqlstore.RawStoreSettings{ClientID: "acme"})
	require.NoError(t, err)

	// When: reading the second quarter
	raw, err := raws.FetchRaw(ctx, domain.DateRange{Start: day(time.April, 1), End: day(time.June, 30)}, nil)

	// Then: only rows booked inside the quarter are returned
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", raw.Client.Name)
	require.Len(t, raw.Pickups, 1)
	assert.Equal(t, "p-1", raw.Pickups[0].ID)
	require.Len(t, raw.Assets, 2)
	assert.Equal(t, "a-1", raw.Assets[0].ID)
	require.NotNil(t, raw.Assets[0].ProcessedAt)
	assert.Nil(t, raw.Assets[1].ProcessedAt)
	assert.Equal(t, 150.0, raw.Financials.ResaleValue)
	assert.Equal(t, 500.0, raw.Financials.ProgramCost)
	assert.Equal(t, 50.0, raw.Environmental.CarbonAvoidedKg)
	assert.Equal(t, 40.0, raw.Environmental.CarbonByCategory["laptop"])
	require.Len(t, raw.ComplianceRecords, 1)
	assert.Equal(t, "R2", raw.ComplianceRecords[0].Regulation)
	require.Len(t, raw.CommunityRecords, 1)

	// And: the previous quarter feeds the comparison totals
	require.NotNil(t, raw.Previous)
	assert.Equal(t, 1, raw.Previous.PickupCount)
	assert.Equal(t, 60.0, raw.Previous.TotalWeightKg)
	assert.Equal(t, 0.0, raw.Previous.DiversionRate)
	assert.Equal(t, 25.0, raw.Previous.CarbonAvoidedKg)
}

func TestStore_FilteredRead(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Add(ctx, dataset()))
	raws, err := sqlstore.NewRawStore(f.db, sqlstore.RawStoreSettings{ClientID: "acme"})
	require.NoError(t, err)

	raw, err := raws.FetchRaw(ctx, domain.DateRange{Start: day(time.April, 1), End: day(time.June, 30)},
		domain.Filters{domain.FilterCategory: "monitor"})
	require.NoError(t, err)
	require.Len(t, raw.Assets, 1)
	assert.Equal(t, "a-2", raw.Assets[0].ID)
}

func TestStore_Replace(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, dataset()))

	smaller := dataset()
	smaller.Pickups = smaller.Pickups[:1]
	smaller.Ledger = nil
	require.NoError(t, f.store.Replace(ctx, smaller))

	var pickups, ledger int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM pickups WHERE client_id = ?`, "acme").Scan(&pickups))
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE client_id = ?`, "acme").Scan(&ledger))
	assert.Equal(t, 1, pickups)
	assert.Zero(t, ledger)
}

func TestStore_Add_ShouldRollBackWithTransaction(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	// Given: a duplicate pickup id fails half way through the dataset
	ds := dataset()
	ds.Pickups = append(ds.Pickups, ds.Pickups[0])

	// When
	err := duckdb.InTransaction(ctx, f.db, func(ctx context.Context) error {
		return f.store.Add(ctx, ds)
	})

	// Then
	require.Error(t, err)
	var clients int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM clients`).Scan(&clients))
	assert.Zero(t, clients)
}

func TestStore_Add_RequiresClient(t *testing.T) {
	f := setupFixture(t)
	err := f.store.Add(context.Background(), store.Dataset{})
	assert.EqualError(t, err, "client id is required")
}
