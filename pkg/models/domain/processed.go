package domain

import "time"

// SectionView is the render-ready projection of raw data for one section
type SectionView interface {
	SectionKey() string
}

type ReportInfo struct {
	GeneratedAt time.Time `json:"generatedAt"`
	ReportName  string    `json:"reportName"`
	Subtitle    string    `json:"subtitle"`
	DateRange   DateRange `json:"dateRange"`
	TotalPages  int       `json:"totalPages"`
}

type Summary struct {
	TotalWeightKg   float64 `json:"totalWeightKg"`
	DiversionRate   int     `json:"diversionRate"`
	TaxBenefit      float64 `json:"taxBenefit"`
	CarbonAvoidedKg float64 `json:"carbonAvoidedKg"`
	DeviceCount     int     `json:"deviceCount"`
	SchoolCount     int     `json:"schoolCount"`
	CountryCount    int     `json:"countryCount"`
}

// ProcessedReportData is the normalized output of the data processor.
// Sections only holds entries for sections selected true.
type ProcessedReportData struct {
	Metadata ReportInfo             `json:"metadata"`
	Client   Client                 `json:"client"`
	Sections map[string]SectionView `json:"sections"`
	Summary  Summary                `json:"summary"`
}

type EmptySection struct {
	Key string `json:"key"`
}

func (s EmptySection) SectionKey() string { return s.Key }

// ValueKind tells the renderer how to format a raw metric value
type ValueKind string

const (
	ValueWeight   ValueKind = "weight"
	ValueCount    ValueKind = "count"
	ValuePercent  ValueKind = "percent"
	ValueCurrency ValueKind = "currency"
)

type Highlight struct {
	Label    string    `json:"label"`
	Value    float64   `json:"value"`
	Kind     ValueKind `json:"kind"`
	Category string    `json:"category"`
}

type ExecutiveSummarySection struct {
	ClientName    string      `json:"clientName"`
	Period        DateRange   `json:"period"`
	TotalWeightKg float64     `json:"totalWeightKg"`
	DeviceCount   int         `json:"deviceCount"`
	PickupCount   int         `json:"pickupCount"`
	DiversionRate int         `json:"diversionRate"`
	Highlights    []Highlight `json:"highlights"`
}

func (ExecutiveSummarySection) SectionKey() string { return "executiveSummary" }

type KPI struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Value    float64   `json:"value"`
	Kind     ValueKind `json:"kind"`
	Previous float64   `json:"previous"`
	Change   float64   `json:"change"`
	Target   float64   `json:"target,omitempty"`
}

type KPISection struct {
	DiversionRate int   `json:"diversionRate"`
	Metrics       []KPI `json:"metrics"`
}

func (KPISection) SectionKey() string { return "kpis" }

type Share struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

type EnvironmentalSection struct {
	CarbonAvoidedKg  float64 `json:"carbonAvoidedKg"`
	CarbonBreakdown  []Share `json:"carbonBreakdown"`
	Materials        []Share `json:"materials"`
	MaterialsTotalKg float64 `json:"materialsTotalKg"`
	RecoveryRate     float64 `json:"recoveryRate"`
	WaterSavedLiters float64 `json:"waterSavedLiters"`
	EnergySavedKWh   float64 `json:"energySavedKWh"`
	TreesEquivalent  float64 `json:"treesEquivalent"`
	CarsOffRoad      float64 `json:"carsOffRoad"`
}

func (EnvironmentalSection) SectionKey() string { return "environmentalImpact" }

type CategoryCount struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	WeightKg float64 `json:"weightKg"`
}

type AssetRow struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	SerialNumber string  `json:"serialNumber"`
	Condition    string  `json:"condition"`
	Method       string  `json:"method"`
	WeightKg     float64 `json:"weightKg"`
}

type AssetTrackingSection struct {
	TotalAssets   int             `json:"totalAssets"`
	TotalWeightKg float64         `json:"totalWeightKg"`
	ByCategory    []CategoryCount `json:"byCategory"`
	ByCondition   []CategoryCount `json:"byCondition"`
	Assets        []AssetRow      `json:"assets"`
}

func (AssetTrackingSection) SectionKey() string { return "assetTracking" }

type FinancialSection struct {
	Currency         string  `json:"currency"`
	ResaleValue      float64 `json:"resaleValue"`
	RecyclingRevenue float64 `json:"recyclingRevenue"`
	ProcessingCost   float64 `json:"processingCost"`
	TaxBenefit       float64 `json:"taxBenefit"`
	ProgramCost      float64 `json:"programCost"`
	NetBenefit       float64 `json:"netBenefit"`
	ROI              float64 `json:"roi"`
	PaybackMonths    float64 `json:"paybackMonths"`
}

func (FinancialSection) SectionKey() string { return "financialImpact" }

type CommunityProgram struct {
	Program         string `json:"program"`
	School          string `json:"school"`
	Country         string `json:"country"`
	DevicesDonated  int    `json:"devicesDonated"`
	StudentsReached int    `json:"studentsReached"`
}

type CSRSection struct {
	DevicesDonated   int                `json:"devicesDonated"`
	SchoolsSupported int                `json:"schoolsSupported"`
	CountriesReached int                `json:"countriesReached"`
	StudentsReached  int                `json:"studentsReached"`
	CarbonAvoidedKg  float64            `json:"carbonAvoidedKg"`
	Programs         []CommunityProgram `json:"programs"`
}

func (CSRSection) SectionKey() string { return "csrImpact" }

type ComplianceRow struct {
	Regulation    string    `json:"regulation"`
	Status        string    `json:"status"`
	CertificateID string    `json:"certificateId"`
	ExpiresAt     time.Time `json:"expiresAt"`
	DaysToExpiry  int       `json:"daysToExpiry"`
}

type ComplianceSection struct {
	Records        []ComplianceRow `json:"records"`
	CompliantCount int             `json:"compliantCount"`
	Total          int             `json:"total"`
	ComplianceRate float64         `json:"complianceRate"`
	ExpiringSoon   int             `json:"expiringSoon"`
}

func (ComplianceSection) SectionKey() string { return "compliance" }

// Recommendation carries an optional metric; Kind is empty when there is none.
type Recommendation struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Priority string    `json:"priority"`
	Category string    `json:"category"`
	Metric   string    `json:"metric,omitempty"`
	Value    float64   `json:"value,omitempty"`
	Kind     ValueKind `json:"kind,omitempty"`
}

type RecommendationsSection struct {
	Items []Recommendation `json:"items"`
}

func (RecommendationsSection) SectionKey() string { return "recommendations" }

type DataDestructionSection struct {
	DataBearingAssets int             `json:"dataBearingAssets"`
	Destroyed         int             `json:"destroyed"`
	Pending           int             `json:"pending"`
	ByMethod          []CategoryCount `json:"byMethod"`
	Certificates      []string        `json:"certificates"`
}

func (DataDestructionSection) SectionKey() string { return "dataDestruction" }

type ProcessingSection struct {
	TotalWeightKg float64         `json:"totalWeightKg"`
	ByMethod      []Share         `json:"byMethod"`
	ByFacility    []CategoryCount `json:"byFacility"`
}

func (ProcessingSection) SectionKey() string { return "processingBreakdown" }

type TimelineEvent struct {
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	DeviceCount int       `json:"deviceCount,omitempty"`
	WeightKg    float64   `json:"weightKg,omitempty"`
}

type TimelineSection struct {
	Events []TimelineEvent `json:"events"`
}

func (TimelineSection) SectionKey() string { return "timeline" }

type Benchmark struct {
	Label           string    `json:"label"`
	Kind            ValueKind `json:"kind"`
	Value           float64   `json:"value"`
	IndustryAverage float64   `json:"industryAverage"`
	Difference      float64   `json:"difference"`
	HigherIsBetter  bool      `json:"higherIsBetter"`
}

type BenchmarkSection struct {
	Industry string      `json:"industry"`
	Metrics  []Benchmark `json:"metrics"`
}

func (BenchmarkSection) SectionKey() string { return "benchmarking" }
