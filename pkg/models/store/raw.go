package store

import "time"

// Ledger entry kinds
const (
	LedgerResale           = "resale"
	LedgerRecyclingRevenue = "recycling_revenue"
	LedgerProcessingCost   = "processing_cost"
	LedgerTaxBenefit       = "tax_benefit"
	LedgerProgramCost      = "program_cost"
)

// Environmental metric names
const (
	MetricCarbonAvoided     = "carbon_avoided_kg"
	MetricMaterialRecovered = "material_recovered_kg"
	MetricWaterSaved        = "water_saved_liters"
	MetricEnergySaved       = "energy_saved_kwh"
)

type ClientRecord struct {
	ID       string
	Name     string
	Industry string
	Size     string
	Location string
}

type PickupRecord struct {
	ID          string
	ClientID    string
	PickupDate  time.Time
	Location    string
	WeightKg    float64
	DeviceCount int
	Status      string
}

type AssetRecord struct {
	ID                string
	ClientID          string
	PickupID          string
	Category          string
	Manufacturer      string
	Model             string
	SerialNumber      string
	WeightKg          float64
	Condition         string
	Disposition       string
	DataBearing       bool
	DestructionMethod string
	CertificateID     string
	ProcessedAt       *time.Time
	ResaleValue       float64
}

type ProcessingRecord struct {
	ID          string
	ClientID    string
	AssetID     string
	ProcessedOn time.Time
	Facility    string
	Stage       string
	Disposition string
	WeightKg    float64
}

// LedgerEntry is one financial movement of a program
type LedgerEntry struct {
	ClientID  string
	EntryDate time.Time
	Kind      string
	Amount    float64
}

// MetricRecord is one environmental measurement; Category is empty for totals
type MetricRecord struct {
	ClientID   string
	RecordedOn time.Time
	Metric     string
	Category   string
	Value      float64
}

type ComplianceRecord struct {
	ID            string
	ClientID      string
	Regulation    string
	Status        string
	CertificateID string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

type CommunityRecord struct {
	ID              string
	ClientID        string
	Program         string
	School          string
	Country         string
	DevicesDonated  int
	StudentsReached int
	DonatedOn       time.Time
}

// Dataset is the full set of rows for one client
type Dataset struct {
	Client     ClientRecord
	Pickups    []PickupRecord
	Assets     []AssetRecord
	Processing []ProcessingRecord
	Ledger     []LedgerEntry
	Metrics    []MetricRecord
	Compliance []ComplianceRecord
	Community  []CommunityRecord
}
