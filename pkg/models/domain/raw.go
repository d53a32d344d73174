package domain

import "time"

type DisposalMethod string

const (
	MethodReuse     DisposalMethod = "reuse"
	MethodRefurbish DisposalMethod = "refurbish"
	MethodRecycle   DisposalMethod = "recycle"
	MethodResale    DisposalMethod = "resale"
	MethodDonation  DisposalMethod = "donation"
	MethodLandfill  DisposalMethod = "landfill"
)

type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
	Location string `json:"location"`
}

type Pickup struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	WeightKg    float64   `json:"weightKg"`
	DeviceCount int       `json:"deviceCount"`
	Status      string    `json:"status"`
}

type Asset struct {
	ID                string         `json:"id"`
	PickupID          string         `json:"pickupId"`
	Category          string         `json:"category"`
	Manufacturer      string         `json:"manufacturer"`
	Model             string         `json:"model"`
	SerialNumber      string         `json:"serialNumber"`
	WeightKg          float64        `json:"weightKg"`
	Condition         string         `json:"condition"`
	Method            DisposalMethod `json:"method"`
	DataBearing       bool           `json:"dataBearing"`
	DestructionMethod string         `json:"destructionMethod,omitempty"`
	CertificateID     string         `json:"certificateId,omitempty"`
	ProcessedAt       *time.Time     `json:"processedAt,omitempty"`
	ResaleValue       float64        `json:"resaleValue"`
}

type ProcessingRecord struct {
	ID       string         `json:"id"`
	AssetID  string         `json:"assetId"`
	Date     time.Time      `json:"date"`
	Facility string         `json:"facility"`
	Stage    string         `json:"stage"`
	Method   DisposalMethod `json:"method"`
	WeightKg float64        `json:"weightKg"`
}

type Financials struct {
	ResaleValue      float64 `json:"resaleValue"`
	RecyclingRevenue float64 `json:"recyclingRevenue"`
	ProcessingCost   float64 `json:"processingCost"`
	TaxBenefit       float64 `json:"taxBenefit"`
	ProgramCost      float64 `json:"programCost"`
}

type EnvironmentalMetrics struct {
	CarbonAvoidedKg    float64            `json:"carbonAvoidedKg"`
	CarbonByCategory   map[string]float64 `json:"carbonByCategory"`
	MaterialsRecovered map[string]float64 `json:"materialsRecovered"`
	WaterSavedLiters   float64            `json:"waterSavedLiters"`
	EnergySavedKWh     float64            `json:"energySavedKWh"`
}

type ComplianceRecord struct {
	ID            string    `json:"id"`
	Regulation    string    `json:"regulation"`
	Status        string    `json:"status"`
	CertificateID string    `json:"certificateId"`
	IssuedAt      time.Time `json:"issuedAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type CommunityRecord struct {
	ID              string    `json:"id"`
	Program         string    `json:"program"`
	School          string    `json:"school"`
	Country         string    `json:"country"`
	DevicesDonated  int       `json:"devicesDonated"`
	StudentsReached int       `json:"studentsReached"`
	Date            time.Time `json:"date"`
}

// PeriodTotals are the headline figures of the previous comparable period
type PeriodTotals struct {
	TotalWeightKg   float64 `json:"totalWeightKg"`
	DiversionRate   float64 `json:"diversionRate"`
	DeviceCount     int     `json:"deviceCount"`
	PickupCount     int     `json:"pickupCount"`
	CarbonAvoidedKg float64 `json:"carbonAvoidedKg"`
}

// RawData is everything a DataSource returns for one date range
type RawData struct {
	Client            Client               `json:"client"`
	Pickups           []Pickup             `json:"pickups"`
	Assets            []Asset              `json:"assets"`
	ProcessingRecords []ProcessingRecord   `json:"processingRecords"`
	Financials        Financials           `json:"financials"`
	Environmental     EnvironmentalMetrics `json:"environmental"`
	ComplianceRecords []ComplianceRecord   `json:"complianceRecords"`
	CommunityRecords  []CommunityRecord    `json:"communityRecords"`
	Previous          *PeriodTotals        `json:"previous,omitempty"`
}
