package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/de-tools/ewaste-reports/pkg/cache"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
	"github.com/de-tools/ewaste-reports/pkg/services/config"
	"github.com/de-tools/ewaste-reports/pkg/services/processor"
	"github.com/de-tools/ewaste-reports/pkg/services/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct{ mock.Mock }

func (m *mockSource) FetchRaw(ctx context.Context, dr domain.DateRange, filters domain.Filters) (*domain.RawData, error) {
	args := m.Called(ctx, dr, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawData), args.Error(1)
}

var testNow = time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC)

func rawData() *domain.RawData {
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC) }
	return &domain.RawData{
		Client:  domain.Client{ID: "acme", Name: "Acme Corp", Industry: "technology"},
		Pickups: []domain.Pickup{{ID: "P1", Date: day(5, 2), Location: "HQ", WeightKg: 120, DeviceCount: 2}},
		Assets: []domain.Asset{
			{ID: "A1", Category: "laptop", Method: domain.MethodReuse, WeightKg: 2, DataBearing: true, DestructionMethod: "wipe", CertificateID: "CD-1"},
			{ID: "A2", Category: "monitor", Method: domain.MethodRecycle, WeightKg: 6},
		},
		ProcessingRecords: []domain.ProcessingRecord{{ID: "R1", AssetID: "A2", Date: day(5, 3), Facility: "Reno", Stage: "recycling", Method: domain.MethodRecycle, WeightKg: 6}},
		Financials:        domain.Financials{ResaleValue: 400, RecyclingRevenue: 50, ProcessingCost: 100, TaxBenefit: 80, ProgramCost: 200},
		Environmental: domain.EnvironmentalMetrics{
			CarbonAvoidedKg:    300,
			CarbonByCategory:   map[string]float64{"laptop": 200, "monitor": 100},
			MaterialsRecovered: map[string]float64{"metals": 50},
		},
		ComplianceRecords: []domain.ComplianceRecord{{ID: "C1", Regulation: "R2v3", Status: "compliant", CertificateID: "R2-1", IssuedAt: day(1, 10), ExpiresAt: day(12, 31)}},
		CommunityRecords:  []domain.CommunityRecord{{ID: "K1", Program: "Laptops for Learning", School: "Lincoln High", Country: "US", DevicesDonated: 1, StudentsReached: 25}},
	}
}

type fixture struct {
	source      *mockSource
	generator   *Generator
	transitions [][2]State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{source: new(mockSource)}

	clock := cache.NewFakeClock(testNow)
	proc := processor.NewProcessor(f.source,
		processor.WithClock(clock),
		processor.WithCache(cache.New[string, *domain.ProcessedReportData](cache.WithClock(clock), cache.WithScheduler(clock))),
	)
	resolver := config.NewResolver(config.DefaultSettings(), config.WithClock(func() time.Time { return testNow }))
	engine, err := template.NewDefaultEngine()
	require.NoError(t, err)

	f.generator = NewGenerator(resolver, proc, engine,
		WithClock(func() time.Time { return testNow }),
		WithIDGenerator(func() string { return "report-1" }),
		WithObserver(func(from, to State) { f.transitions = append(f.transitions, [2]State{from, to}) }),
	)
	return f
}

func (f *fixture) expectFetch() {
	f.source.On("FetchRaw", mock.Anything, mock.Anything, mock.Anything).Return(rawData(), nil)
}

func (f *fixture) lastTransition() [2]State {
	return f.transitions[len(f.transitions)-1]
}

func renderedSections(t *testing.T, doc string) []string {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	var keys []string
	d.Find("main section[data-section]").Each(func(_ int, s *goquery.Selection) {
		keys = append(keys, s.AttrOr("data-section", ""))
	})
	return keys
}

func TestGenerate_PickupDefaults(t *testing.T) {
	// Given
	f := newFixture(t)
	f.expectFetch()

	// When
	res, err := f.generator.Generate(context.Background(), "pickup", domain.ReportOptions{})

	// Then
	require.NoError(t, err)
	want := []string{catalog.ExecutiveSummary, catalog.AssetTracking, catalog.Compliance}
	assert.Equal(t, want, res.Metadata.SectionsIncluded)
	assert.InDelta(t, 3.0, res.Metadata.EstimatedPages, 1e-9)
	assert.Equal(t, want, renderedSections(t, res.Document))

	assert.Equal(t, "report-1", res.Metadata.ReportID)
	assert.Equal(t, "Pickup Report", res.Metadata.ReportName)
	assert.Equal(t, "Acme Corp", res.Metadata.ClientName)
	assert.Equal(t, "Acme Corp · May 1, 2025 – May 15, 2025", res.Metadata.Subtitle)
	assert.Equal(t, testNow, res.Metadata.GeneratedAt)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), res.Metadata.DateRange.Start)
	assert.Equal(t, testNow, res.Metadata.DateRange.End)
	assert.Equal(t, domain.FormatWeb, res.ResolvedOptions.Format)
	assert.Nil(t, res.Data)
	f.source.AssertNumberOfCalls(t, "FetchRaw", 1)
}

func TestGenerate_Transitions(t *testing.T) {
	f := newFixture(t)
	f.expectFetch()

	_, err := f.generator.Generate(context.Background(), "monthly", domain.ReportOptions{})

	require.NoError(t, err)
	assert.Equal(t, [][2]State{
		{StateIdle, StateResolving},
		{StateResolving, StateValidating},
		{StateValidating, StateProcessing},
		{StateProcessing, StateRendering},
		{StateRendering, StateDone},
	}, f.transitions)
}

func TestGenerate_AnnualMissingDependencies(t *testing.T) {
	f := newFixture(t)

	_, err := f.generator.Generate(context.Background(), "annual", domain.ReportOptions{
		Sections: map[string]bool{
			catalog.Recommendations:     true,
			catalog.KPIs:                false,
			catalog.EnvironmentalImpact: false,
			catalog.FinancialImpact:     false,
		},
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 3)
	joined := strings.Join(validationErr.Errors, "\n")
	assert.Contains(t, joined, "Key Performance Indicators")
	assert.Contains(t, joined, "Environmental Impact")
	assert.Contains(t, joined, "Financial Impact")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, [2]State{StateValidating, StateFailed}, f.lastTransition())
	f.source.AssertNotCalled(t, "FetchRaw", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_DependencyNamedInError(t *testing.T) {
	f := newFixture(t)

	_, err := f.generator.Generate(context.Background(), "quarterly", domain.ReportOptions{
		Sections: map[string]bool{catalog.Recommendations: true, catalog.KPIs: false},
	})

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Key Performance Indicators")
}

func TestGenerate_UnknownReportType(t *testing.T) {
	f := newFixture(t)

	_, err := f.generator.Generate(context.Background(), "biweekly", domain.ReportOptions{})

	var unknown *domain.UnknownReportTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "biweekly", unknown.ReportType)
	assert.Equal(t, [2]State{StateResolving, StateFailed}, f.lastTransition())
	f.source.AssertNotCalled(t, "FetchRaw", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_RequiredSectionsAlwaysPresent(t *testing.T) {
	for _, rt := range catalog.ReportTypes() {
		t.Run(rt.Key, func(t *testing.T) {
			f := newFixture(t)
			f.expectFetch()

			res, err := f.generator.Generate(context.Background(), rt.Key, domain.ReportOptions{})
			require.NoError(t, err)
			for _, key := range rt.RequiredSections {
				assert.True(t, res.ResolvedOptions.Sections[key], key)
			}

			_, err = f.generator.Generate(context.Background(), rt.Key, domain.ReportOptions{
				Sections: map[string]bool{catalog.ExecutiveSummary: false},
			})
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestGenerate_QuarterlySectionOrder(t *testing.T) {
	f := newFixture(t)
	f.expectFetch()

	// caller overlay lists keys in reverse; map order is irrelevant anyway
	res, err := f.generator.Generate(context.Background(), "quarterly", domain.ReportOptions{
		Sections: map[string]bool{
			catalog.CSRImpact:           true,
			catalog.FinancialImpact:     true,
			catalog.AssetTracking:       true,
			catalog.EnvironmentalImpact: true,
			catalog.KPIs:                true,
		},
	})

	require.NoError(t, err)
	want := []string{
		catalog.ExecutiveSummary,
		catalog.KPIs,
		catalog.EnvironmentalImpact,
		catalog.AssetTracking,
		catalog.FinancialImpact,
		catalog.CSRImpact,
	}
	assert.Equal(t, want, res.Metadata.SectionsIncluded)
	assert.Equal(t, want, renderedSections(t, res.Document))
}

func TestGenerate_DebugReturnsData(t *testing.T) {
	f := newFixture(t)
	f.expectFetch()
	on := true

	res, err := f.generator.Generate(context.Background(), "pickup", domain.ReportOptions{
		Overrides: &domain.Overrides{Debug: domain.DebugOverrides{Enabled: &on}},
	})

	require.NoError(t, err)
	require.NotNil(t, res.Data)
	assert.Len(t, res.Data.Sections, 3)
	assert.Equal(t, res.Metadata.ClientName, res.Data.Client.Name)
}

func TestGenerate_DataFetchError(t *testing.T) {
	f := newFixture(t)
	cause := errors.New("connection refused")
	f.source.On("FetchRaw", mock.Anything, mock.Anything, mock.Anything).Return(nil, cause)

	res, err := f.generator.Generate(context.Background(), "monthly", domain.ReportOptions{})

	assert.Nil(t, res)
	assert.Equal(t, domain.KindDataFetch, domain.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, [2]State{StateProcessing, StateFailed}, f.lastTransition())
}

func TestGenerate_UnknownSectionFailsRendering(t *testing.T) {
	f := newFixture(t)
	f.expectFetch()

	res, err := f.generator.Generate(context.Background(), "pickup", domain.ReportOptions{
		Sections: map[string]bool{"carbonLedger": true},
	})

	assert.Nil(t, res)
	var notFound *domain.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "carbonLedger", notFound.Template)
	assert.Equal(t, [2]State{StateRendering, StateFailed}, f.lastTransition())
}

func TestGenerate_RenderError(t *testing.T) {
	f := newFixture(t)
	f.expectFetch()
	engine, err := template.NewDefaultEngine()
	require.NoError(t, err)
	engine.RegisterTemplate(catalog.Compliance, `{{.Section.Missing}}`)
	f.generator.renderer = engine

	_, err = f.generator.Generate(context.Background(), "pickup", domain.ReportOptions{})

	var renderErr *domain.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, catalog.Compliance, renderErr.Template)
}

func TestGenerate_CachedBetweenCalls(t *testing.T) {
	f := newFixture(t)
	f.expectFetch()

	first, err := f.generator.Generate(context.Background(), "pickup", domain.ReportOptions{})
	require.NoError(t, err)
	second, err := f.generator.Generate(context.Background(), "pickup", domain.ReportOptions{})
	require.NoError(t, err)
	f.source.AssertNumberOfCalls(t, "FetchRaw", 1)
	assert.Equal(t, first.Document, second.Document)

	f.generator.ClearCache()
	_, err = f.generator.Generate(context.Background(), "pickup", domain.ReportOptions{})
	require.NoError(t, err)
	f.source.AssertNumberOfCalls(t, "FetchRaw", 2)
}

func TestGenerate_LocaleOverrideFormatsDocument(t *testing.T) {
	f := newFixture(t)
	raw := rawData()
	raw.Financials.ResaleValue = 12500
	f.source.On("FetchRaw", mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)
	opts := func(locale string) domain.ReportOptions {
		return domain.ReportOptions{
			Sections:  map[string]bool{catalog.FinancialImpact: true, catalog.Timeline: true},
			Overrides: &domain.Overrides{Locale: &locale},
		}
	}

	us, err := f.generator.Generate(context.Background(), "pickup", opts("en-US"))
	require.NoError(t, err)
	de, err := f.generator.Generate(context.Background(), "pickup", opts("de-DE"))
	require.NoError(t, err)

	assert.Equal(t, "de-DE", de.ResolvedOptions.Settings.Locale)
	assert.Contains(t, us.Document, "$12,500.00")
	assert.Contains(t, us.Document, "(120.0 kg)")
	assert.Contains(t, de.Document, "$12.500,00")
	assert.Contains(t, de.Document, "(120,0 kg)")
	assert.NotContains(t, de.Document, "$12,500.00")
	assert.Contains(t, de.Document, `<html lang="de-DE">`)
	assert.NotEqual(t, us.Document, de.Document)
	// locale is applied at render time, so both documents come from one fetch
	f.source.AssertNumberOfCalls(t, "FetchRaw", 1)
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	all := make(map[string]bool)
	for _, s := range catalog.Sections() {
		all[s.Key] = true
	}

	p, err := f.generator.Preview("pickup", domain.ReportOptions{Sections: all})

	require.NoError(t, err)
	assert.Equal(t, "Pickup Report", p.Name)
	assert.True(t, p.Validation.OK)
	assert.InDelta(t, 12.0, p.EstimatedPages, 1e-9)
	assert.True(t, p.ExceedsMaxPages)
	assert.Equal(t, 5, p.MaxPages)
	require.Len(t, p.Sections, 12)
	assert.Equal(t, catalog.ExecutiveSummary, p.Sections[0].Key)
	assert.Equal(t, catalog.Benchmarking, p.Sections[11].Key)
	assert.True(t, p.Features.Charts)
	assert.True(t, p.Features.Tables)
	f.source.AssertNotCalled(t, "FetchRaw", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.transitions)
}

func TestPreview_ReportsValidationWithoutError(t *testing.T) {
	f := newFixture(t)

	p, err := f.generator.Preview("annual", domain.ReportOptions{
		Sections: map[string]bool{catalog.KPIs: false},
	})

	require.NoError(t, err)
	assert.False(t, p.Validation.OK)
	assert.NotEmpty(t, p.Validation.Errors)

	_, err = f.generator.Preview("biweekly", domain.ReportOptions{})
	assert.Equal(t, domain.KindUnknownReportType, domain.KindOf(err))
}

func TestCalculateEstimatedPagesMonotonic(t *testing.T) {
	selected := map[string]bool{}
	prev := CalculateEstimatedPages(selected)
	for _, s := range catalog.Sections() {
		selected[s.Key] = true
		pages := CalculateEstimatedPages(selected)
		assert.GreaterOrEqual(t, pages, prev, s.Key)
		prev = pages
	}
	selected["carbonLedger"] = true
	assert.Equal(t, prev, CalculateEstimatedPages(selected))
}

func TestOrderSections(t *testing.T) {
	got := OrderSections([]string{"zeta", catalog.Benchmarking, "alpha", catalog.ExecutiveSummary, catalog.Timeline})
	assert.Equal(t, []string{catalog.ExecutiveSummary, catalog.Timeline, catalog.Benchmarking, "alpha", "zeta"}, got)
}

func TestGeneratorCatalogAccessors(t *testing.T) {
	f := newFixture(t)
	assert.Len(t, f.generator.AvailableSections(), 12)
	keys := make([]string, 0)
	for _, rt := range f.generator.ReportTypes() {
		keys = append(keys, rt.Key)
	}
	assert.Subset(t, keys, []string{"pickup", "monthly", "quarterly", "semiAnnual", "annual"})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "rendering", StateRendering.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateProcessing.Terminal())
}
