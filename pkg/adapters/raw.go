package adapters

import (
	"math"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/models/store"
)

func MapStoreClientToDomain(c store.ClientRecord) domain.Client {
	return domain.Client{
		ID:       c.ID,
		Name:     c.Name,
		Industry: c.Industry,
		Size:     c.Size,
		Location: c.Location,
	}
}

func MapStorePickupToDomain(p store.PickupRecord) domain.Pickup {
	return domain.Pickup{
		ID:          p.ID,
		Date:        p.PickupDate,
		Location:    p.Location,
		WeightKg:    p.WeightKg,
		DeviceCount: p.DeviceCount,
		Status:      p.Status,
	}
}

func MapStoreAssetToDomain(a store.AssetRecord) domain.Asset {
	return domain.Asset{
		ID:                a.ID,
		PickupID:          a.PickupID,
		Category:          a.Category,
		Manufacturer:      a.Manufacturer,
		Model:             a.Model,
		SerialNumber:      a.SerialNumber,
		WeightKg:          a.WeightKg,
		Condition:         a.Condition,
		Method:            domain.DisposalMethod(a.Disposition),
		DataBearing:       a.DataBearing,
		DestructionMethod: a.DestructionMethod,
		CertificateID:     a.CertificateID,
		ProcessedAt:       a.ProcessedAt,
		ResaleValue:       a.ResaleValue,
	}
}

func MapStoreProcessingToDomain(r store.ProcessingRecord) domain.ProcessingRecord {
	return domain.ProcessingRecord{
		ID:       r.ID,
		AssetID:  r.AssetID,
		Date:     r.ProcessedOn,
		Facility: r.Facility,
		Stage:    r.Stage,
		Method:   domain.DisposalMethod(r.Disposition),
		WeightKg: r.WeightKg,
	}
}

func MapStoreComplianceToDomain(r store.ComplianceRecord) domain.ComplianceRecord {
	return domain.ComplianceRecord{
		ID:            r.ID,
		Regulation:    r.Regulation,
		Status:        r.Status,
		CertificateID: r.CertificateID,
		IssuedAt:      r.IssuedAt,
		ExpiresAt:     r.ExpiresAt,
	}
}

func MapStoreCommunityToDomain(r store.CommunityRecord) domain.CommunityRecord {
	return domain.CommunityRecord{
		ID:              r.ID,
		Program:         r.Program,
		School:          r.School,
		Country:         r.Country,
		DevicesDonated:  r.DevicesDonated,
		StudentsReached: r.StudentsReached,
		Date:            r.DonatedOn,
	}
}

// MapLedgerToFinancials sums ledger entries per kind. Unknown kinds are ignored.
func MapLedgerToFinancials(entries []store.LedgerEntry) domain.Financials {
	var f domain.Financials
	for _, e := range entries {
		switch e.Kind {
		case store.LedgerResale:
			f.ResaleValue += e.Amount
		case store.LedgerRecyclingRevenue:
			f.RecyclingRevenue += e.Amount
		case store.LedgerProcessingCost:
			f.ProcessingCost += e.Amount
		case store.LedgerTaxBenefit:
			f.TaxBenefit += e.Amount
		case store.LedgerProgramCost:
			f.ProgramCost += e.Amount
		}
	}
	return f
}

// MapMetricsToEnvironmental folds metric rows into totals and per-category breakdowns.
// Carbon rows with a category count towards both the breakdown and the total.
func MapMetricsToEnvironmental(metrics []store.MetricRecord) domain.EnvironmentalMetrics {
	env := domain.EnvironmentalMetrics{
		CarbonByCategory:   map[string]float64{},
		MaterialsRecovered: map[string]float64{},
	}
	for _, m := range metrics {
		switch m.Metric {
		case store.MetricCarbonAvoided:
			env.CarbonAvoidedKg += m.Value
			if m.Category != "" {
				env.CarbonByCategory[m.Category] += m.Value
			}
		case store.MetricMaterialRecovered:
			env.MaterialsRecovered[m.Category] += m.Value
		case store.MetricWaterSaved:
			env.WaterSavedLiters += m.Value
		case store.MetricEnergySaved:
			env.EnergySavedKWh += m.Value
		}
	}
	return env
}

// MapDatasetToRawData converts rows already scoped to one period.
func MapDatasetToRawData(ds store.Dataset) *domain.RawData {
	raw := &domain.RawData{
		Client:            MapStoreClientToDomain(ds.Client),
		Pickups:           make([]domain.Pickup, 0, len(ds.Pickups)),
		Assets:            make([]domain.Asset, 0, len(ds.Assets)),
		ProcessingRecords: make([]domain.ProcessingRecord, 0, len(ds.Processing)),
		Financials:        MapLedgerToFinancials(ds.Ledger),
		Environmental:     MapMetricsToEnvironmental(ds.Metrics),
		ComplianceRecords: make([]domain.ComplianceRecord, 0, len(ds.Compliance)),
		CommunityRecords:  make([]domain.CommunityRecord, 0, len(ds.Community)),
	}
	for _, p := range ds.Pickups {
		raw.Pickups = append(raw.Pickups, MapStorePickupToDomain(p))
	}
	for _, a := range ds.Assets {
		raw.Assets = append(raw.Assets, MapStoreAssetToDomain(a))
	}
	for _, r := range ds.Processing {
		raw.ProcessingRecords = append(raw.ProcessingRecords, MapStoreProcessingToDomain(r))
	}
	for _, r := range ds.Compliance {
		raw.ComplianceRecords = append(raw.ComplianceRecords, MapStoreComplianceToDomain(r))
	}
	for _, r := range ds.Community {
		raw.CommunityRecords = append(raw.CommunityRecords, MapStoreCommunityToDomain(r))
	}
	return raw
}

// MapRawDataToDataset is the inverse used when seeding a store. Aggregated
// financials and environmental totals are booked on the given date.
func MapRawDataToDataset(raw *domain.RawData, bookedOn time.Time) store.Dataset {
	clientID := raw.Client.ID
	ds := store.Dataset{
		Client: store.ClientRecord{
			ID:       clientID,
			Name:     raw.Client.Name,
			Industry: raw.Client.Industry,
			Size:     raw.Client.Size,
			Location: raw.Client.Location,
		},
	}

	for _, p := range raw.Pickups {
		ds.Pickups = append(ds.Pickups, store.PickupRecord{
			ID: p.ID, ClientID: clientID, PickupDate: p.Date, Location: p.Location,
			WeightKg: p.WeightKg, DeviceCount: p.DeviceCount, Status: p.Status,
		})
	}
	for _, a := range raw.Assets {
		ds.Assets = append(ds.Assets, store.AssetRecord{
			ID: a.ID, ClientID: clientID, PickupID: a.PickupID, Category: a.Category,
			Manufacturer: a.Manufacturer, Model: a.Model, SerialNumber: a.SerialNumber,
			WeightKg: a.WeightKg, Condition: a.Condition, Disposition: string(a.Method),
			DataBearing: a.DataBearing, DestructionMethod: a.DestructionMethod,
			CertificateID: a.CertificateID, ProcessedAt: a.ProcessedAt, ResaleValue: a.ResaleValue,
		})
	}
	for _, r := range raw.ProcessingRecords {
		ds.Processing = append(ds.Processing, store.ProcessingRecord{
			ID: r.ID, ClientID: clientID, AssetID: r.AssetID, ProcessedOn: r.Date,
			Facility: r.Facility, Stage: r.Stage, Disposition: string(r.Method), WeightKg: r.WeightKg,
		})
	}
	for _, r := range raw.ComplianceRecords {
		ds.Compliance = append(ds.Compliance, store.ComplianceRecord{
			ID: r.ID, ClientID: clientID, Regulation: r.Regulation, Status: r.Status,
			CertificateID: r.CertificateID, IssuedAt: r.IssuedAt, ExpiresAt: r.ExpiresAt,
		})
	}
	for _, r := range raw.CommunityRecords {
		ds.Community = append(ds.Community, store.CommunityRecord{
			ID: r.ID, ClientID: clientID, Program: r.Program, School: r.School, Country: r.Country,
			DevicesDonated: r.DevicesDonated, StudentsReached: r.StudentsReached, DonatedOn: r.Date,
		})
	}

	on := bookedOn
	ledger := func(kind string, amount float64) {
		if amount != 0 {
			ds.Ledger = append(ds.Ledger, store.LedgerEntry{ClientID: clientID, EntryDate: on, Kind: kind, Amount: amount})
		}
	}
	ledger(store.LedgerResale, raw.Financials.ResaleValue)
	ledger(store.LedgerRecyclingRevenue, raw.Financials.RecyclingRevenue)
	ledger(store.LedgerProcessingCost, raw.Financials.ProcessingCost)
	ledger(store.LedgerTaxBenefit, raw.Financials.TaxBenefit)
	ledger(store.LedgerProgramCost, raw.Financials.ProgramCost)

	metric := func(name, category string, value float64) {
		if math.Abs(value) > 1e-9 {
			ds.Metrics = append(ds.Metrics, store.MetricRecord{ClientID: clientID, RecordedOn: on, Metric: name, Category: category, Value: value})
		}
	}
	env := raw.Environmental
	categorized := 0.0
	for category, v := range env.CarbonByCategory {
		metric(store.MetricCarbonAvoided, category, v)
		categorized += v
	}
	metric(store.MetricCarbonAvoided, "", env.CarbonAvoidedKg-categorized)
	for material, v := range env.MaterialsRecovered {
		metric(store.MetricMaterialRecovered, material, v)
	}
	metric(store.MetricWaterSaved, "", env.WaterSavedLiters)
	metric(store.MetricEnergySaved, "", env.EnergySavedKWh)
	return ds
}

// FilterRawData narrows an unscoped snapshot by location and category.
// Assets follow their pickup when the location filter drops it.
func FilterRawData(raw *domain.RawData, location, category string) *domain.RawData {
	if location == "" && category == "" {
		return raw
	}
	out := *raw

	if location != "" {
		kept := make(map[string]bool, len(raw.Pickups))
		out.Pickups = make([]domain.Pickup, 0, len(raw.Pickups))
		for _, p := range raw.Pickups {
			if p.Location == location {
				out.Pickups = append(out.Pickups, p)
				kept[p.ID] = true
			}
		}
		assets := make([]domain.Asset, 0, len(raw.Assets))
		for _, a := range raw.Assets {
			if kept[a.PickupID] {
				assets = append(assets, a)
			}
		}
		out.Assets = assets
	}

	if category != "" {
		assets := make([]domain.Asset, 0, len(out.Assets))
		for _, a := range out.Assets {
			if a.Category == category {
				assets = append(assets, a)
			}
		}
		out.Assets = assets
	}
	return &out
}
