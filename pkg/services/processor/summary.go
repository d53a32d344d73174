package processor

import "github.com/de-tools/ewaste-reports/pkg/models/domain"

// summarize folds the computed sections into report-wide headline figures.
// A figure is only filled when a section that carries it was selected.
func summarize(sections map[string]domain.SectionView) domain.Summary {
	var s domain.Summary
	for _, view := range sections {
		switch v := view.(type) {
		case domain.ExecutiveSummarySection:
			s.TotalWeightKg = v.TotalWeightKg
			s.DiversionRate = v.DiversionRate
			s.DeviceCount = v.DeviceCount
		case domain.KPISection:
			s.DiversionRate = v.DiversionRate
		case domain.AssetTrackingSection:
			if s.DeviceCount == 0 {
				s.DeviceCount = v.TotalAssets
			}
		case domain.EnvironmentalSection:
			s.CarbonAvoidedKg = v.CarbonAvoidedKg
		case domain.FinancialSection:
			s.TaxBenefit = v.TaxBenefit
		case domain.CSRSection:
			s.SchoolCount = v.SchoolsSupported
			s.CountryCount = v.CountriesReached
			if s.CarbonAvoidedKg == 0 {
				s.CarbonAvoidedKg = v.CarbonAvoidedKg
			}
		}
	}
	return s
}
