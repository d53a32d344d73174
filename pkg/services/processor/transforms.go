package processor

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/catalog"
	"github.com/shopspring/decimal"
)

const (
	// kg CO2 absorbed by one tree per year
	treeAbsorptionKg = 21.77
	// kg CO2 emitted by one passenger car per year
	carEmissionsKg = 4600.0
	// certificates expiring inside this window are flagged
	expiryWarningDays = 90
	diversionTarget   = 95.0
)

type transformContext struct {
	raw      *domain.RawData
	resolved domain.ResolvedOptions
	now      time.Time
}

type transformFunc func(tc *transformContext) domain.SectionView

var transforms = map[string]transformFunc{
	catalog.ExecutiveSummary:    executiveSummary,
	catalog.KPIs:                kpis,
	catalog.EnvironmentalImpact: environmentalImpact,
	catalog.AssetTracking:       assetTracking,
	catalog.FinancialImpact:     financialImpact,
	catalog.CSRImpact:           csrImpact,
	catalog.Compliance:          compliance,
	catalog.Recommendations:     recommendations,
	catalog.DataDestruction:     dataDestruction,
	catalog.ProcessingBreakdown: processingBreakdown,
	catalog.Timeline:            timeline,
	catalog.Benchmarking:        benchmarking,
}

// Transformable reports whether a section key has a dedicated transform.
func Transformable(key string) bool {
	_, ok := transforms[key]
	return ok
}

// DiversionRate is the integer share of assets not sent to landfill.
func DiversionRate(assets []domain.Asset) int {
	if len(assets) == 0 {
		return 0
	}
	diverted := 0
	for _, a := range assets {
		if a.Method != domain.MethodLandfill {
			diverted++
		}
	}
	return int(math.Round(100 * float64(diverted) / float64(len(assets))))
}

// TotalWeight sums pickup weights, falling back to asset weights when no pickups carry one.
func TotalWeight(raw *domain.RawData) float64 {
	total := decimal.Zero
	for _, p := range raw.Pickups {
		total = total.Add(decimal.NewFromFloat(p.WeightKg))
	}
	if total.IsZero() {
		for _, a := range raw.Assets {
			total = total.Add(decimal.NewFromFloat(a.WeightKg))
		}
	}
	return total.InexactFloat64()
}

// PercentChange returns (current-previous)/previous as a percentage, 0 without a baseline.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

func executiveSummary(tc *transformContext) domain.SectionView {
	raw := tc.raw
	weight := TotalWeight(raw)
	s := domain.ExecutiveSummarySection{
		ClientName:    clientName(tc),
		Period:        tc.resolved.DateRange,
		TotalWeightKg: weight,
		DeviceCount:   len(raw.Assets),
		PickupCount:   len(raw.Pickups),
		DiversionRate: DiversionRate(raw.Assets),
	}
	s.Highlights = []domain.Highlight{
		{Label: "Total weight processed", Value: weight, Kind: domain.ValueWeight, Category: "recycling"},
		{Label: "Landfill diversion", Value: float64(s.DiversionRate), Kind: domain.ValuePercent, Category: "environmental"},
		{Label: "Carbon avoided", Value: raw.Environmental.CarbonAvoidedKg, Kind: domain.ValueWeight, Category: "carbon"},
		{Label: "Tax benefit", Value: raw.Financials.TaxBenefit, Kind: domain.ValueCurrency, Category: "financial"},
	}
	return s
}

func kpis(tc *transformContext) domain.SectionView {
	raw := tc.raw
	prev := domain.PeriodTotals{}
	if raw.Previous != nil {
		prev = *raw.Previous
	}

	weight := TotalWeight(raw)
	diversion := DiversionRate(raw.Assets)
	avgPickup, prevAvgPickup := 0.0, 0.0
	if len(raw.Pickups) > 0 {
		avgPickup = weight / float64(len(raw.Pickups))
	}
	if prev.PickupCount > 0 {
		prevAvgPickup = prev.TotalWeightKg / float64(prev.PickupCount)
	}

	metric := func(key, label string, kind domain.ValueKind, cur, before, target float64) domain.KPI {
		return domain.KPI{
			Key:      key,
			Label:    label,
			Value:    cur,
			Kind:     kind,
			Previous: before,
			Change:   PercentChange(cur, before),
			Target:   target,
		}
	}

	return domain.KPISection{
		DiversionRate: diversion,
		Metrics: []domain.KPI{
			metric("diversionRate", "Diversion rate", domain.ValuePercent, float64(diversion), prev.DiversionRate, diversionTarget),
			metric("totalWeight", "Total weight", domain.ValueWeight, weight, prev.TotalWeightKg, 0),
			metric("devices", "Devices processed", domain.ValueCount, float64(len(raw.Assets)), float64(prev.DeviceCount), 0),
			metric("pickups", "Pickups completed", domain.ValueCount, float64(len(raw.Pickups)), float64(prev.PickupCount), 0),
			metric("avgPickupWeight", "Average pickup weight", domain.ValueWeight, avgPickup, prevAvgPickup, 0),
			metric("carbonAvoided", "Carbon avoided", domain.ValueWeight, raw.Environmental.CarbonAvoidedKg, prev.CarbonAvoidedKg, 0),
		},
	}
}

func environmentalImpact(tc *transformContext) domain.SectionView {
	env := tc.raw.Environmental
	materials, materialsTotal := shares(env.MaterialsRecovered)
	carbon, _ := shares(env.CarbonByCategory)

	recovery := 0.0
	if weight := TotalWeight(tc.raw); weight > 0 {
		recovery = math.Min(100, materialsTotal/weight*100)
	}

	return domain.EnvironmentalSection{
		CarbonAvoidedKg:  env.CarbonAvoidedKg,
		CarbonBreakdown:  carbon,
		Materials:        materials,
		MaterialsTotalKg: materialsTotal,
		RecoveryRate:     recovery,
		WaterSavedLiters: env.WaterSavedLiters,
		EnergySavedKWh:   env.EnergySavedKWh,
		TreesEquivalent:  env.CarbonAvoidedKg / treeAbsorptionKg,
		CarsOffRoad:      env.CarbonAvoidedKg / carEmissionsKg,
	}
}

func assetTracking(tc *transformContext) domain.SectionView {
	assets := tc.raw.Assets
	rows := make([]domain.AssetRow, 0, len(assets))
	byCategory := newCounter()
	byCondition := newCounter()
	total := decimal.Zero
	for _, a := range assets {
		rows = append(rows, domain.AssetRow{
			ID:           a.ID,
			Category:     a.Category,
			Manufacturer: a.Manufacturer,
			Model:        a.Model,
			SerialNumber: a.SerialNumber,
			Condition:    a.Condition,
			Method:       string(a.Method),
			WeightKg:     a.WeightKg,
		})
		byCategory.add(a.Category, a.WeightKg)
		byCondition.add(a.Condition, a.WeightKg)
		total = total.Add(decimal.NewFromFloat(a.WeightKg))
	}
	return domain.AssetTrackingSection{
		TotalAssets:   len(assets),
		TotalWeightKg: total.InexactFloat64(),
		ByCategory:    byCategory.sorted(),
		ByCondition:   byCondition.sorted(),
		Assets:        rows,
	}
}

func financialImpact(tc *transformContext) domain.SectionView {
	f := tc.raw.Financials
	resale := decimal.NewFromFloat(f.ResaleValue)
	recycling := decimal.NewFromFloat(f.RecyclingRevenue)
	processing := decimal.NewFromFloat(f.ProcessingCost)
	tax := decimal.NewFromFloat(f.TaxBenefit)
	program := decimal.NewFromFloat(f.ProgramCost)

	net := resale.Add(recycling).Add(tax).Sub(processing)

	roi := decimal.Zero
	if program.IsPositive() {
		roi = net.Sub(program).Div(program).Mul(decimal.NewFromInt(100))
	}

	payback := decimal.Zero
	if net.IsPositive() && program.IsPositive() {
		monthly := net.Div(decimal.NewFromFloat(tc.resolved.DateRange.Months()))
		payback = program.Div(monthly)
	}

	return domain.FinancialSection{
		Currency:         tc.resolved.Settings.Currency,
		ResaleValue:      f.ResaleValue,
		RecyclingRevenue: f.RecyclingRevenue,
		ProcessingCost:   f.ProcessingCost,
		TaxBenefit:       f.TaxBenefit,
		ProgramCost:      f.ProgramCost,
		NetBenefit:       net.InexactFloat64(),
		ROI:              roi.InexactFloat64(),
		PaybackMonths:    payback.InexactFloat64(),
	}
}

func csrImpact(tc *transformContext) domain.SectionView {
	s := domain.CSRSection{CarbonAvoidedKg: tc.raw.Environmental.CarbonAvoidedKg}
	schools := make(map[string]struct{})
	countries := make(map[string]struct{})
	for _, r := range tc.raw.CommunityRecords {
		s.DevicesDonated += r.DevicesDonated
		s.StudentsReached += r.StudentsReached
		if r.School != "" {
			schools[r.School] = struct{}{}
		}
		if r.Country != "" {
			countries[r.Country] = struct{}{}
		}
		s.Programs = append(s.Programs, domain.CommunityProgram{
			Program:         r.Program,
			School:          r.School,
			Country:         r.Country,
			DevicesDonated:  r.DevicesDonated,
			StudentsReached: r.StudentsReached,
		})
	}
	s.SchoolsSupported = len(schools)
	s.CountriesReached = len(countries)
	return s
}

func compliance(tc *transformContext) domain.SectionView {
	s := domain.ComplianceSection{Total: len(tc.raw.ComplianceRecords)}
	for _, r := range tc.raw.ComplianceRecords {
		days := 0
		if !r.ExpiresAt.IsZero() {
			days = int(math.Floor(r.ExpiresAt.Sub(tc.now).Hours() / 24))
		}
		if strings.EqualFold(r.Status, "compliant") {
			s.CompliantCount++
		}
		if !r.ExpiresAt.IsZero() && days >= 0 && days <= expiryWarningDays {
			s.ExpiringSoon++
		}
		s.Records = append(s.Records, domain.ComplianceRow{
			Regulation:    r.Regulation,
			Status:        r.Status,
			CertificateID: r.CertificateID,
			ExpiresAt:     r.ExpiresAt,
			DaysToExpiry:  days,
		})
	}
	sort.SliceStable(s.Records, func(i, j int) bool {
		return s.Records[i].Regulation < s.Records[j].Regulation
	})
	if s.Total > 0 {
		s.ComplianceRate = float64(s.CompliantCount) / float64(s.Total) * 100
	}
	return s
}

func recommendations(tc *transformContext) domain.SectionView {
	raw := tc.raw
	var items []domain.Recommendation

	diversion := DiversionRate(raw.Assets)
	landfill := 0
	reused := 0
	for _, a := range raw.Assets {
		switch a.Method {
		case domain.MethodLandfill:
			landfill++
		case domain.MethodReuse, domain.MethodRefurbish, domain.MethodResale, domain.MethodDonation:
			reused++
		}
	}

	if len(raw.Assets) > 0 && diversion < 90 {
		items = append(items, domain.Recommendation{
			Title:    "Raise landfill diversion",
			Body:     "Diversion is below the **90%** program goal. Review the assets routed to landfill for refurbishment or material recovery.",
			Priority: "high",
			Category: "environmental",
			Metric:   "Landfill diversion",
			Value:    float64(diversion),
			Kind:     domain.ValuePercent,
		})
	} else if landfill > 0 {
		items = append(items, domain.Recommendation{
			Title:    "Eliminate remaining landfill volume",
			Body:     "Some assets still went to landfill. Partner with a certified downstream recycler to close the gap.",
			Priority: "medium",
			Category: "environmental",
			Metric:   "Assets sent to landfill",
			Value:    float64(landfill),
			Kind:     domain.ValueCount,
		})
	}

	f := financialImpact(tc).(domain.FinancialSection)
	if f.ProgramCost > 0 && f.ROI < 0 {
		items = append(items, domain.Recommendation{
			Title:    "Improve program return",
			Body:     "Program return is negative. Shifting eligible devices to resale channels increases recovered value.",
			Priority: "high",
			Category: "financial",
			Metric:   "Program ROI",
			Value:    f.ROI,
			Kind:     domain.ValuePercent,
		})
	}

	if len(raw.Assets) > 0 && float64(reused)/float64(len(raw.Assets)) < 0.3 {
		items = append(items, domain.Recommendation{
			Title:    "Extend device life",
			Body:     "Less than 30% of devices were reused or refurbished. Grading devices at pickup surfaces more reuse candidates.",
			Priority: "medium",
			Category: "operations",
		})
	}

	if len(items) == 0 {
		items = append(items, domain.Recommendation{
			Title:    "Maintain current performance",
			Body:     "All program indicators are on target. Keep the current pickup cadence and downstream partners.",
			Priority: "low",
			Category: "strategy",
		})
	}
	return domain.RecommendationsSection{Items: items}
}

func dataDestruction(tc *transformContext) domain.SectionView {
	s := domain.DataDestructionSection{}
	byMethod := newCounter()
	certs := make(map[string]struct{})
	for _, a := range tc.raw.Assets {
		if !a.DataBearing {
			continue
		}
		s.DataBearingAssets++
		if a.DestructionMethod == "" {
			s.Pending++
			continue
		}
		s.Destroyed++
		byMethod.add(a.DestructionMethod, a.WeightKg)
		if a.CertificateID != "" {
			certs[a.CertificateID] = struct{}{}
		}
	}
	s.ByMethod = byMethod.sorted()
	s.Certificates = make([]string, 0, len(certs))
	for id := range certs {
		s.Certificates = append(s.Certificates, id)
	}
	sort.Strings(s.Certificates)
	return s
}

func processingBreakdown(tc *transformContext) domain.SectionView {
	byMethod := make(map[string]float64)
	byFacility := newCounter()
	total := decimal.Zero
	for _, r := range tc.raw.ProcessingRecords {
		byMethod[string(r.Method)] += r.WeightKg
		byFacility.add(r.Facility, r.WeightKg)
		total = total.Add(decimal.NewFromFloat(r.WeightKg))
	}
	methods, _ := shares(byMethod)
	return domain.ProcessingSection{
		TotalWeightKg: total.InexactFloat64(),
		ByMethod:      methods,
		ByFacility:    byFacility.sorted(),
	}
}

func timeline(tc *transformContext) domain.SectionView {
	dr := tc.resolved.DateRange
	var events []domain.TimelineEvent
	for _, p := range tc.raw.Pickups {
		if !dr.Contains(p.Date) {
			continue
		}
		events = append(events, domain.TimelineEvent{
			Date:        p.Date,
			Title:       "Pickup " + p.ID,
			Description: fmt.Sprintf("%d devices collected at %s", p.DeviceCount, p.Location),
			Category:    "pickup",
			DeviceCount: p.DeviceCount,
			WeightKg:    p.WeightKg,
		})
	}
	for _, r := range tc.raw.ProcessingRecords {
		if !dr.Contains(r.Date) {
			continue
		}
		events = append(events, domain.TimelineEvent{
			Date:        r.Date,
			Title:       fmt.Sprintf("%s at %s", titleCase(r.Stage), r.Facility),
			Description: fmt.Sprintf("Asset %s processed for %s", r.AssetID, r.Method),
			Category:    "processing",
		})
	}
	for _, c := range tc.raw.ComplianceRecords {
		if !dr.Contains(c.IssuedAt) {
			continue
		}
		events = append(events, domain.TimelineEvent{
			Date:        c.IssuedAt,
			Title:       c.Regulation + " certificate issued",
			Description: "Certificate " + c.CertificateID,
			Category:    "compliance",
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return domain.TimelineSection{Events: events}
}

type industryAverages struct {
	diversionRate   float64
	reuseRate       float64
	carbonPerDevice float64
	costPerKg       float64
}

var industryBenchmarks = map[string]industryAverages{
	"technology":    {diversionRate: 85, reuseRate: 35, carbonPerDevice: 40, costPerKg: 1.2},
	"finance":       {diversionRate: 80, reuseRate: 30, carbonPerDevice: 35, costPerKg: 1.5},
	"healthcare":    {diversionRate: 75, reuseRate: 20, carbonPerDevice: 30, costPerKg: 1.8},
	"education":     {diversionRate: 70, reuseRate: 40, carbonPerDevice: 30, costPerKg: 1.0},
	"manufacturing": {diversionRate: 78, reuseRate: 25, carbonPerDevice: 45, costPerKg: 0.9},
}

func benchmarking(tc *transformContext) domain.SectionView {
	raw := tc.raw
	industry := strings.ToLower(raw.Client.Industry)
	if industry == "" {
		industry = strings.ToLower(tc.resolved.Settings.ClientIndustry)
	}
	avg, ok := industryBenchmarks[industry]
	if !ok {
		industry = "technology"
		avg = industryBenchmarks[industry]
	}

	reused := 0
	for _, a := range raw.Assets {
		switch a.Method {
		case domain.MethodReuse, domain.MethodRefurbish, domain.MethodResale, domain.MethodDonation:
			reused++
		}
	}
	reuseRate, carbonPerDevice := 0.0, 0.0
	if n := len(raw.Assets); n > 0 {
		reuseRate = float64(reused) / float64(n) * 100
		carbonPerDevice = raw.Environmental.CarbonAvoidedKg / float64(n)
	}
	costPerKg := 0.0
	if w := TotalWeight(raw); w > 0 {
		costPerKg = raw.Financials.ProcessingCost / w
	}

	bench := func(label string, kind domain.ValueKind, v, industryAvg float64, higherIsBetter bool) domain.Benchmark {
		return domain.Benchmark{
			Label:           label,
			Kind:            kind,
			Value:           v,
			IndustryAverage: industryAvg,
			Difference:      v - industryAvg,
			HigherIsBetter:  higherIsBetter,
		}
	}

	return domain.BenchmarkSection{
		Industry: industry,
		Metrics: []domain.Benchmark{
			bench("Diversion rate", domain.ValuePercent, float64(DiversionRate(raw.Assets)), avg.diversionRate, true),
			bench("Reuse rate", domain.ValuePercent, reuseRate, avg.reuseRate, true),
			bench("Carbon avoided per device", domain.ValueWeight, carbonPerDevice, avg.carbonPerDevice, true),
			bench("Processing cost per kg", domain.ValueCurrency, costPerKg, avg.costPerKg, false),
		},
	}
}

func clientName(tc *transformContext) string {
	if tc.raw.Client.Name != "" {
		return tc.raw.Client.Name
	}
	return tc.resolved.Settings.ClientName
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// shares turns a label→value map into shares sorted by value, largest first.
func shares(values map[string]float64) ([]domain.Share, float64) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	out := make([]domain.Share, 0, len(values))
	for label, v := range values {
		pct := 0.0
		if total > 0 {
			pct = v / total * 100
		}
		out = append(out, domain.Share{Label: label, Value: v, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out, total
}

type counter struct {
	rows map[string]*domain.CategoryCount
}

func newCounter() *counter {
	return &counter{rows: make(map[string]*domain.CategoryCount)}
}

func (c *counter) add(label string, weight float64) {
	if label == "" {
		label = "unknown"
	}
	row, ok := c.rows[label]
	if !ok {
		row = &domain.CategoryCount{Category: label}
		c.rows[label] = row
	}
	row.Count++
	row.WeightKg += weight
}

func (c *counter) sorted() []domain.CategoryCount {
	out := make([]domain.CategoryCount, 0, len(c.rows))
	for _, row := range c.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
