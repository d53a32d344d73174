package domain

type SectionCategory string

const (
	CategoryOverview      SectionCategory = "overview"
	CategoryPerformance   SectionCategory = "performance"
	CategoryEnvironmental SectionCategory = "environmental"
	CategoryOperations    SectionCategory = "operations"
	CategoryFinancial     SectionCategory = "financial"
	CategorySocial        SectionCategory = "social"
	CategoryCompliance    SectionCategory = "compliance"
	CategorySecurity      SectionCategory = "security"
	CategoryStrategy      SectionCategory = "strategy"
)

// SectionFeatures describes which kinds of content a section renders
type SectionFeatures struct {
	Charts      bool `json:"charts"`
	Tables      bool `json:"tables"`
	Interactive bool `json:"interactive"`
}

// SectionDefinition is an immutable catalog entry for an independently selectable report section
type SectionDefinition struct {
	Key            string          `json:"key"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Required       bool            `json:"required"`
	Category       SectionCategory `json:"category"`
	Dependencies   []string        `json:"dependencies"`
	EstimatedPages float64         `json:"estimatedPages"`
	Features       SectionFeatures `json:"features"`
}

type Timeframe string

const (
	TimeframeSingleEvent Timeframe = "single-event"
	TimeframeMonthly     Timeframe = "monthly"
	TimeframeQuarterly   Timeframe = "quarterly"
	TimeframeSemiAnnual  Timeframe = "semi-annual"
	TimeframeAnnual      Timeframe = "annual"
	TimeframeCustom      Timeframe = "custom"
)

// ReportTypeDefinition bundles default and required sections with a timeframe
type ReportTypeDefinition struct {
	Key              string    `json:"key"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	DefaultSections  []string  `json:"defaultSections"`
	RequiredSections []string  `json:"requiredSections"`
	Timeframe        Timeframe `json:"timeframe"`
	MaxPages         int       `json:"maxPages"`
}
