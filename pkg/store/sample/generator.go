// Package sample generates deterministic e-waste program data for demos and tests.
// The same client and date range always produce the same data set.
package sample

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/adapters"
	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/processor"
	"github.com/rs/zerolog"
)

const pickupInterval = 14 * 24 * time.Hour

type Settings struct {
	ClientID   string `mapstructure:"client_id"`
	ClientName string `mapstructure:"client_name"`
	Industry   string `mapstructure:"industry"`
	Location   string `mapstructure:"location"`
}

type category struct {
	name        string
	weightKg    float64
	carbonKg    float64
	resale      float64
	dataBearing bool
	makers      []string
}

var categories = []category{
	{name: "laptop", weightKg: 2.2, carbonKg: 310, resale: 180, dataBearing: true, makers: []string{"Dell", "Lenovo", "HP", "Apple"}},
	{name: "desktop", weightKg: 8.5, carbonKg: 480, resale: 95, dataBearing: true, makers: []string{"Dell", "HP", "Lenovo"}},
	{name: "monitor", weightKg: 5.6, carbonKg: 220, resale: 40, makers: []string{"Dell", "LG", "Samsung"}},
	{name: "phone", weightKg: 0.2, carbonKg: 60, resale: 120, dataBearing: true, makers: []string{"Apple", "Samsung", "Google"}},
	{name: "server", weightKg: 24, carbonKg: 1300, resale: 400, dataBearing: true, makers: []string{"Dell", "HPE", "Supermicro"}},
	{name: "printer", weightKg: 12, carbonKg: 150, resale: 25, makers: []string{"HP", "Brother", "Canon"}},
	{name: "networking", weightKg: 3.1, carbonKg: 90, resale: 60, makers: []string{"Cisco", "Juniper", "Aruba"}},
}

// dispositions are drawn by cumulative weight
var dispositions = []struct {
	method domain.DisposalMethod
	upTo   float64
}{
	{domain.MethodResale, 0.25},
	{domain.MethodRefurbish, 0.45},
	{domain.MethodReuse, 0.55},
	{domain.MethodRecycle, 0.93},
	{domain.MethodDonation, 0.98},
	{domain.MethodLandfill, 1},
}

var (
	locations    = []string{"Headquarters", "Distribution Center", "Regional Office"}
	facilities   = map[string]string{"Headquarters": "Metro Recovery Hub", "Distribution Center": "Northside ITAD", "Regional Office": "Metro Recovery Hub"}
	conditions   = []string{"excellent", "good", "fair", "broken"}
	destructions = []string{"wipe", "shred", "degauss"}
	schools      = []struct{ name, country string }{
		{"Lincoln High School", "US"},
		{"Escuela Benito Juárez", "MX"},
		{"Nairobi Tech Academy", "KE"},
		{"Riverside Primary", "GB"},
	}
	regulations = []struct {
		name   string
		status string
		days   int
	}{
		{"R2v3", "compliant", 45},
		{"e-Stewards", "compliant", 210},
		{"ISO 14001", "compliant", 400},
		{"NIST 800-88", "compliant", 120},
		{"WEEE", "pending", 30},
	}
	materialShares = []struct {
		name  string
		share float64
	}{
		{"metals", 0.46},
		{"plastics", 0.31},
		{"glass", 0.14},
		{"other", 0.09},
	}
)

// Generator is a DataSource producing synthetic but stable program data
type Generator struct {
	settings Settings
}

func NewGenerator(settings Settings) *Generator {
	if settings.ClientID == "" {
		settings.ClientID = "sample-client"
	}
	if settings.ClientName == "" {
		settings.ClientName = "Sample Client"
	}
	if settings.Industry == "" {
		settings.Industry = "technology"
	}
	if settings.Location == "" {
		settings.Location = locations[0]
	}
	return &Generator{settings: settings}
}

func (g *Generator) FetchRaw(ctx context.Context, dr domain.DateRange, filters domain.Filters) (*domain.RawData, error) {
	if dr.End.Before(dr.Start) {
		return nil, fmt.Errorf("date range ends before it starts")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clientID := g.settings.ClientID
	if id := filters[domain.FilterClientID]; id != "" {
		clientID = id
	}

	raw := g.Generate(clientID, dr)
	zerolog.Ctx(ctx).Debug().
		Str("client_id", clientID).
		Int("pickups", len(raw.Pickups)).
		Int("assets", len(raw.Assets)).
		Msg("sample data generated")
	return adapters.FilterRawData(raw, filters[domain.FilterLocation], filters[domain.FilterCategory]), nil
}

// Generate builds the full unfiltered data set of a client's period.
func (g *Generator) Generate(clientID string, dr domain.DateRange) *domain.RawData {
	rng := newRand(clientID, dr.Start)
	end := dr.EndExclusive()

	raw := &domain.RawData{
		Client: domain.Client{
			ID:       clientID,
			Name:     g.settings.ClientName,
			Industry: g.settings.Industry,
			Size:     "enterprise",
			Location: g.settings.Location,
		},
		Environmental: domain.EnvironmentalMetrics{
			CarbonByCategory:   map[string]float64{},
			MaterialsRecovered: map[string]float64{},
		},
	}

	var totalWeight, recycledWeight float64
	var donated int
	for n, date := 0, dr.Start.Add(3*24*time.Hour); date.Before(end); n, date = n+1, date.Add(pickupInterval) {
		pickup := domain.Pickup{
			ID:       fmt.Sprintf("PU-%s-%02d", date.Format("20060102"), n+1),
			Date:     date,
			Location: locations[n%len(locations)],
			Status:   "completed",
		}

		var pickupDonations int
		count := 6 + rng.IntN(10)
		for i := 0; i < count; i++ {
			asset := g.asset(rng, pickup, i)
			raw.Assets = append(raw.Assets, asset)
			raw.ProcessingRecords = append(raw.ProcessingRecords, domain.ProcessingRecord{
				ID:       "PR-" + asset.ID,
				AssetID:  asset.ID,
				Date:     *asset.ProcessedAt,
				Facility: facilities[pickup.Location],
				Stage:    stage(asset.Method),
				Method:   asset.Method,
				WeightKg: asset.WeightKg,
			})

			pickup.WeightKg += asset.WeightKg
			pickup.DeviceCount++
			raw.Financials.ResaleValue += asset.ResaleValue
			if asset.Method == domain.MethodRecycle {
				recycledWeight += asset.WeightKg
			}
			if asset.Method == domain.MethodDonation {
				pickupDonations++
			}
			if asset.Method != domain.MethodLandfill {
				c := categoryOf(asset.Category)
				raw.Environmental.CarbonByCategory[asset.Category] += c.carbonKg
				raw.Environmental.CarbonAvoidedKg += c.carbonKg
			}
		}
		pickup.WeightKg = round(pickup.WeightKg, 2)
		totalWeight += pickup.WeightKg
		raw.Pickups = append(raw.Pickups, pickup)

		if pickupDonations > 0 {
			school := schools[n%len(schools)]
			raw.CommunityRecords = append(raw.CommunityRecords, domain.CommunityRecord{
				ID:              "CM-" + pickup.ID,
				Program:         "Digital Classrooms",
				School:          school.name,
				Country:         school.country,
				DevicesDonated:  pickupDonations,
				StudentsReached: pickupDonations * (20 + rng.IntN(30)),
				Date:            date.Add(10 * 24 * time.Hour),
			})
			donated += pickupDonations
		}
	}

	for _, m := range materialShares {
		raw.Environmental.MaterialsRecovered[m.name] = round(recycledWeight*m.share, 2)
	}
	raw.Environmental.WaterSavedLiters = round(totalWeight*12.5, 0)
	raw.Environmental.EnergySavedKWh = round(totalWeight*3.4, 0)

	months := dr.Months()
	raw.Financials.ResaleValue = round(raw.Financials.ResaleValue, 2)
	raw.Financials.RecyclingRevenue = round(recycledWeight*0.38, 2)
	raw.Financials.ProcessingCost = round(totalWeight*0.55, 2)
	raw.Financials.TaxBenefit = float64(donated) * 85
	raw.Financials.ProgramCost = round(months*1200, 2)

	for i, r := range regulations {
		raw.ComplianceRecords = append(raw.ComplianceRecords, domain.ComplianceRecord{
			ID:            fmt.Sprintf("CMP-%02d", i+1),
			Regulation:    r.name,
			Status:        r.status,
			CertificateID: fmt.Sprintf("%s-%s-%d", clientID, r.name, dr.End.Year()),
			IssuedAt:      dr.End.AddDate(-3, 0, r.days),
			ExpiresAt:     dr.End.AddDate(0, 0, r.days),
		})
	}

	raw.Previous = previous(rng, raw)
	return raw
}

func (g *Generator) asset(rng *rand.Rand, pickup domain.Pickup, i int) domain.Asset {
	c := categories[rng.IntN(len(categories))]
	method := disposition(rng.Float64())
	processedAt := pickup.Date.Add(time.Duration(2+rng.IntN(10)) * 24 * time.Hour)

	a := domain.Asset{
		ID:           fmt.Sprintf("%s-%03d", pickup.ID, i+1),
		PickupID:     pickup.ID,
		Category:     c.name,
		Manufacturer: c.makers[rng.IntN(len(c.makers))],
		Model:        fmt.Sprintf("%s-%d", c.name[:3], 100+rng.IntN(900)),
		SerialNumber: fmt.Sprintf("SN%08d", rng.IntN(100000000)),
		WeightKg:     round(c.weightKg*(0.85+rng.Float64()*0.3), 2),
		Condition:    conditions[rng.IntN(len(conditions))],
		Method:       method,
		DataBearing:  c.dataBearing,
		ProcessedAt:  &processedAt,
	}
	if method == domain.MethodResale || method == domain.MethodRefurbish {
		a.ResaleValue = round(c.resale*(0.6+rng.Float64()*0.8), 2)
	}
	if c.dataBearing {
		a.DestructionMethod = destructions[rng.IntN(len(destructions))]
		a.CertificateID = "CD-" + a.ID
	}
	return a
}

// previous derives a comparable prior period for trends
func previous(rng *rand.Rand, raw *domain.RawData) *domain.PeriodTotals {
	if len(raw.Pickups) == 0 {
		return nil
	}
	scale := 0.8 + rng.Float64()*0.3

	var weight float64
	devices := 0
	for _, p := range raw.Pickups {
		weight += p.WeightKg
		devices += p.DeviceCount
	}
	return &domain.PeriodTotals{
		TotalWeightKg:   round(weight*scale, 2),
		DiversionRate:   round(math.Min(100, float64(processor.DiversionRate(raw.Assets))-2+rng.Float64()*4), 1),
		DeviceCount:     int(float64(devices) * scale),
		PickupCount:     len(raw.Pickups),
		CarbonAvoidedKg: round(raw.Environmental.CarbonAvoidedKg*scale, 2),
	}
}

func newRand(clientID string, start time.Time) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(clientID))
	return rand.New(rand.NewPCG(h.Sum64(), uint64(start.Unix())))
}

func disposition(p float64) domain.DisposalMethod {
	for _, d := range dispositions {
		if p < d.upTo {
			return d.method
		}
	}
	return domain.MethodRecycle
}

func stage(m domain.DisposalMethod) string {
	switch m {
	case domain.MethodResale, domain.MethodRefurbish:
		return "refurbished"
	case domain.MethodReuse, domain.MethodDonation:
		return "redeployed"
	case domain.MethodLandfill:
		return "disposed"
	default:
		return "recycled"
	}
}

func categoryOf(name string) category {
	for _, c := range categories {
		if c.name == name {
			return c
		}
	}
	return category{name: name}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
