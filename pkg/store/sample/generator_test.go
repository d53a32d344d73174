package sample

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quarter = domain.DateRange{
	Start: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
}

func TestGenerator_FetchRaw_ShouldBeDeterministic(t *testing.T) {
	g := NewGenerator(Settings{ClientID: "acme", ClientName: "Acme Corp"})
	ctx := context.Background()

	first, err := g.FetchRaw(ctx, quarter, nil)
	require.NoError(t, err)
	second, err := g.FetchRaw(ctx, quarter, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	other, err := NewGenerator(Settings{ClientID: "globex"}).FetchRaw(ctx, quarter, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.Assets, other.Assets)
}

func TestGenerator_Generate_ShouldStayConsistent(t *testing.T) {
	raw := NewGenerator(Settings{}).Generate("acme", quarter)

	assert.Equal(t, "Sample Client", raw.Client.Name)
	require.NotEmpty(t, raw.Pickups)
	assert.Len(t, raw.ProcessingRecords, len(raw.Assets))
	require.NotNil(t, raw.Previous)
	assert.Equal(t, len(raw.Pickups), raw.Previous.PickupCount)

	byPickup := map[string]float64{}
	devices := map[string]int{}
	for _, a := range raw.Assets {
		byPickup[a.PickupID] += a.WeightKg
		devices[a.PickupID]++
		if a.DataBearing {
			assert.NotEmpty(t, a.CertificateID, a.ID)
		}
		if a.ResaleValue > 0 {
			assert.Contains(t, []domain.DisposalMethod{domain.MethodResale, domain.MethodRefurbish}, a.Method)
		}
	}
	for _, p := range raw.Pickups {
		assert.True(t, quarter.Contains(p.Date), p.ID)
		assert.InDelta(t, byPickup[p.ID], p.WeightKg, 0.01, p.ID)
		assert.Equal(t, devices[p.ID], p.DeviceCount, p.ID)
	}

	var carbon float64
	for _, v := range raw.Environmental.CarbonByCategory {
		carbon += v
	}
	assert.InDelta(t, raw.Environmental.CarbonAvoidedKg, carbon, 1e-6)
	assert.Len(t, raw.ComplianceRecords, len(regulations))
	assert.False(t, math.IsNaN(raw.Financials.ProgramCost))
	assert.Greater(t, raw.Financials.ProgramCost, 0.0)
}

func TestGenerator_FetchRaw_Filters(t *testing.T) {
	g := NewGenerator(Settings{ClientID: "acme"})
	ctx := context.Background()

	raw, err := g.FetchRaw(ctx, quarter, domain.Filters{
		domain.FilterClientID: "globex",
		domain.FilterLocation: "Headquarters",
		domain.FilterCategory: "laptop",
	})
	require.NoError(t, err)

	assert.Equal(t, "globex", raw.Client.ID)
	require.NotEmpty(t, raw.Pickups)
	for _, p := range raw.Pickups {
		assert.Equal(t, "Headquarters", p.Location)
	}
	for _, a := range raw.Assets {
		assert.Equal(t, "laptop", a.Category)
	}
}

func TestGenerator_FetchRaw_Errors(t *testing.T) {
	g := NewGenerator(Settings{})

	t.Run("inverted range", func(t *testing.T) {
		_, err := g.FetchRaw(context.Background(), domain.DateRange{Start: quarter.End, End: quarter.Start}, nil)
		assert.EqualError(t, err, "date range ends before it starts")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := g.FetchRaw(ctx, quarter, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDisposition(t *testing.T) {
	tests := []struct {
		p    float64
		want domain.DisposalMethod
	}{
		{0, domain.MethodResale},
		{0.3, domain.MethodRefurbish},
		{0.5, domain.MethodReuse},
		{0.6, domain.MethodRecycle},
		{0.95, domain.MethodDonation},
		{0.99, domain.MethodLandfill},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, disposition(tt.p), tt.p)
	}
}
