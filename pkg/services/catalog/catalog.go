// Package catalog holds the immutable section and report type tables.
// Accessors hand out copies so the tables can never be changed at runtime.
package catalog

import (
	"slices"
	"sort"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
)

const (
	ExecutiveSummary    = "executiveSummary"
	KPIs                = "kpis"
	EnvironmentalImpact = "environmentalImpact"
	AssetTracking       = "assetTracking"
	FinancialImpact     = "financialImpact"
	CSRImpact           = "csrImpact"
	Compliance          = "compliance"
	Recommendations     = "recommendations"
	DataDestruction     = "dataDestruction"
	ProcessingBreakdown = "processingBreakdown"
	Timeline            = "timeline"
	Benchmarking        = "benchmarking"
)

var sections = []domain.SectionDefinition{
	{
		Key:            ExecutiveSummary,
		Name:           "Executive Summary",
		Description:    "High-level overview of program results for the period",
		Required:       true,
		Category:       domain.CategoryOverview,
		EstimatedPages: 0.5,
		Features:       domain.SectionFeatures{Charts: false, Tables: false, Interactive: false},
	},
	{
		Key:            KPIs,
		Name:           "Key Performance Indicators",
		Description:    "Diversion rate, volumes and period-over-period change",
		Category:       domain.CategoryPerformance,
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: true, Tables: true, Interactive: true},
	},
	{
		Key:            EnvironmentalImpact,
		Name:           "Environmental Impact",
		Description:    "Carbon avoided, resources recovered and everyday equivalents",
		Category:       domain.CategoryEnvironmental,
		Dependencies:   []string{KPIs},
		EstimatedPages: 1.5,
		Features:       domain.SectionFeatures{Charts: true, Tables: true, Interactive: true},
	},
	{
		Key:            AssetTracking,
		Name:           "Asset Tracking",
		Description:    "Inventory of collected assets by category and condition",
		Category:       domain.CategoryOperations,
		EstimatedPages: 1.5,
		Features:       domain.SectionFeatures{Charts: true, Tables: true, Interactive: true},
	},
	{
		Key:            FinancialImpact,
		Name:           "Financial Impact",
		Description:    "Recovered value, costs, tax benefit, ROI and payback",
		Category:       domain.CategoryFinancial,
		Dependencies:   []string{KPIs},
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: true, Tables: true, Interactive: false},
	},
	{
		Key:            CSRImpact,
		Name:           "CSR Impact",
		Description:    "Community programs, donated devices and schools supported",
		Category:       domain.CategorySocial,
		Dependencies:   []string{EnvironmentalImpact},
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: true, Tables: false, Interactive: false},
	},
	{
		Key:            Compliance,
		Name:           "Compliance & Certifications",
		Description:    "Regulatory status and certificate expiry",
		Category:       domain.CategoryCompliance,
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: false, Tables: true, Interactive: false},
	},
	{
		Key:            Recommendations,
		Name:           "Recommendations",
		Description:    "Suggested improvements derived from performance, impact and financials",
		Category:       domain.CategoryStrategy,
		Dependencies:   []string{KPIs, EnvironmentalImpact, FinancialImpact},
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: false, Tables: false, Interactive: false},
	},
	{
		Key:            DataDestruction,
		Name:           "Data Destruction",
		Description:    "Data-bearing assets, sanitization methods and certificates",
		Category:       domain.CategorySecurity,
		Dependencies:   []string{AssetTracking},
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: true, Tables: true, Interactive: false},
	},
	{
		Key:            ProcessingBreakdown,
		Name:           "Processing Breakdown",
		Description:    "Weight processed by disposal method and facility",
		Category:       domain.CategoryOperations,
		Dependencies:   []string{AssetTracking},
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: true, Tables: true, Interactive: true},
	},
	{
		Key:            Timeline,
		Name:           "Timeline",
		Description:    "Chronology of pickups, processing and certifications",
		Category:       domain.CategoryOperations,
		EstimatedPages: 0.5,
		Features:       domain.SectionFeatures{Charts: false, Tables: false, Interactive: true},
	},
	{
		Key:            Benchmarking,
		Name:           "Industry Benchmarking",
		Description:    "Comparison against industry averages",
		Category:       domain.CategoryPerformance,
		Dependencies:   []string{KPIs},
		EstimatedPages: 1,
		Features:       domain.SectionFeatures{Charts: true, Tables: true, Interactive: false},
	},
}

var reportTypes = []domain.ReportTypeDefinition{
	{
		Key:              "pickup",
		Name:             "Pickup Report",
		Description:      "Summary of a single collection event",
		DefaultSections:  []string{ExecutiveSummary, AssetTracking, Compliance},
		RequiredSections: []string{ExecutiveSummary},
		Timeframe:        domain.TimeframeSingleEvent,
		MaxPages:         5,
	},
	{
		Key:              "monthly",
		Name:             "Monthly Report",
		Description:      "Month-to-date program performance",
		DefaultSections:  []string{ExecutiveSummary, KPIs, EnvironmentalImpact, AssetTracking, Compliance},
		RequiredSections: []string{ExecutiveSummary},
		Timeframe:        domain.TimeframeMonthly,
		MaxPages:         10,
	},
	{
		Key:         "quarterly",
		Name:        "Quarterly Business Review",
		Description: "Quarterly performance, impact and value review",
		DefaultSections: []string{
			ExecutiveSummary, KPIs, EnvironmentalImpact, AssetTracking, FinancialImpact, CSRImpact,
		},
		RequiredSections: []string{ExecutiveSummary},
		Timeframe:        domain.TimeframeQuarterly,
		MaxPages:         15,
	},
	{
		Key:         "semiAnnual",
		Name:        "Semi-Annual Report",
		Description: "Half-year program review with compliance and benchmarks",
		DefaultSections: []string{
			ExecutiveSummary, KPIs, EnvironmentalImpact, AssetTracking, FinancialImpact, CSRImpact,
			Compliance, Benchmarking,
		},
		RequiredSections: []string{ExecutiveSummary},
		Timeframe:        domain.TimeframeSemiAnnual,
		MaxPages:         20,
	},
	{
		Key:         "annual",
		Name:        "Annual Sustainability Report",
		Description: "Full-year sustainability, security and value report",
		DefaultSections: []string{
			ExecutiveSummary, KPIs, EnvironmentalImpact, AssetTracking, FinancialImpact, Compliance,
			Recommendations, DataDestruction, ProcessingBreakdown, Timeline,
		},
		RequiredSections: []string{ExecutiveSummary},
		Timeframe:        domain.TimeframeAnnual,
		MaxPages:         30,
	},
	{
		Key:              "custom",
		Name:             "Custom Report",
		Description:      "Start from the executive summary and pick any sections",
		DefaultSections:  []string{ExecutiveSummary},
		RequiredSections: []string{ExecutiveSummary},
		Timeframe:        domain.TimeframeCustom,
		MaxPages:         40,
	},
}

// displayOrder is the fixed rendering priority of catalog sections
var displayOrder = map[string]int{
	ExecutiveSummary:    1,
	KPIs:                2,
	EnvironmentalImpact: 3,
	AssetTracking:       4,
	FinancialImpact:     5,
	CSRImpact:           6,
	Compliance:          7,
	Recommendations:     8,
	DataDestruction:     9,
	ProcessingBreakdown: 10,
	Timeline:            11,
	Benchmarking:        12,
}

var (
	sectionIndex    = make(map[string]int, len(sections))
	reportTypeIndex = make(map[string]int, len(reportTypes))
)

func init() {
	for i, s := range sections {
		sectionIndex[s.Key] = i
	}
	for i, rt := range reportTypes {
		reportTypeIndex[rt.Key] = i
	}
}

// Sections returns all section definitions in display order.
func Sections() []domain.SectionDefinition {
	out := make([]domain.SectionDefinition, len(sections))
	for i, s := range sections {
		out[i] = copySection(s)
	}
	return out
}

// Section looks up a section definition by key.
func Section(key string) (domain.SectionDefinition, bool) {
	i, ok := sectionIndex[key]
	if !ok {
		return domain.SectionDefinition{}, false
	}
	return copySection(sections[i]), true
}

// ReportTypes returns all report type definitions.
func ReportTypes() []domain.ReportTypeDefinition {
	out := make([]domain.ReportTypeDefinition, len(reportTypes))
	for i, rt := range reportTypes {
		out[i] = copyReportType(rt)
	}
	return out
}

// ReportType looks up a report type definition by key.
func ReportType(key string) (domain.ReportTypeDefinition, bool) {
	i, ok := reportTypeIndex[key]
	if !ok {
		return domain.ReportTypeDefinition{}, false
	}
	return copyReportType(reportTypes[i]), true
}

// SectionOrder returns the display priority of a section.
// Keys outside the catalog get a priority after every listed key.
func SectionOrder(key string) int {
	if p, ok := displayOrder[key]; ok {
		return p
	}
	return len(displayOrder) + 1
}

// OrderSections sorts keys by display priority; unlisted keys go last, ordered by key.
func OrderSections(keys []string) []string {
	out := slices.Clone(keys)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := SectionOrder(out[i]), SectionOrder(out[j])
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

// EstimatePages sums the estimated page count of every selected catalog section.
func EstimatePages(selected map[string]bool) float64 {
	total := 0.0
	for key, on := range selected {
		if !on {
			continue
		}
		if s, ok := Section(key); ok {
			total += s.EstimatedPages
		}
	}
	return total
}

func copySection(s domain.SectionDefinition) domain.SectionDefinition {
	s.Dependencies = slices.Clone(s.Dependencies)
	return s
}

func copyReportType(rt domain.ReportTypeDefinition) domain.ReportTypeDefinition {
	rt.DefaultSections = slices.Clone(rt.DefaultSections)
	rt.RequiredSections = slices.Clone(rt.RequiredSections)
	return rt
}
