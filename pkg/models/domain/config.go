package domain

import "time"

type BrandColors struct {
	Primary   string `mapstructure:"primary" json:"primary"`
	Secondary string `mapstructure:"secondary" json:"secondary"`
	Accent    string `mapstructure:"accent" json:"accent"`
}

type Branding struct {
	CompanyName string      `mapstructure:"company_name" json:"companyName"`
	Logo        string      `mapstructure:"logo" json:"logo"`
	Colors      BrandColors `mapstructure:"colors" json:"colors"`
}

type PerformanceSettings struct {
	EnableCaching      bool          `mapstructure:"enable_caching" json:"enableCaching"`
	CacheTimeout       time.Duration `mapstructure:"cache_timeout" json:"cacheTimeout" validate:"gte=0"`
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout" json:"fetchTimeout" validate:"gte=0"`
	DeduplicateFetches bool          `mapstructure:"deduplicate_fetches" json:"deduplicateFetches"`
}

type DebugSettings struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// Settings is the fully merged report configuration
type Settings struct {
	ClientID       string              `mapstructure:"client_id" json:"clientId"`
	ClientName     string              `mapstructure:"client_name" json:"clientName"`
	ClientIndustry string              `mapstructure:"client_industry" json:"clientIndustry"`
	Locale         string              `mapstructure:"locale" json:"locale" validate:"required,bcp47_language_tag"`
	Currency       string              `mapstructure:"currency" json:"currency" validate:"required,iso4217"`
	Branding       Branding            `mapstructure:"branding" json:"branding"`
	Performance    PerformanceSettings `mapstructure:"performance" json:"performance"`
	Debug          DebugSettings       `mapstructure:"debug" json:"debug"`
}

type BrandColorsOverrides struct {
	Primary   *string `json:"primary,omitempty"`
	Secondary *string `json:"secondary,omitempty"`
	Accent    *string `json:"accent,omitempty"`
}

type BrandingOverrides struct {
	CompanyName *string              `json:"companyName,omitempty"`
	Logo        *string              `json:"logo,omitempty"`
	Colors      BrandColorsOverrides `json:"colors"`
}

type PerformanceOverrides struct {
	EnableCaching      *bool          `json:"enableCaching,omitempty"`
	CacheTimeout       *time.Duration `json:"cacheTimeout,omitempty"`
	FetchTimeout       *time.Duration `json:"fetchTimeout,omitempty"`
	DeduplicateFetches *bool          `json:"deduplicateFetches,omitempty"`
}

type DebugOverrides struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// Overrides carries a partial Settings; nil fields are left untouched by a merge
type Overrides struct {
	ClientID       *string              `json:"clientId,omitempty"`
	ClientName     *string              `json:"clientName,omitempty"`
	ClientIndustry *string              `json:"clientIndustry,omitempty"`
	Locale         *string              `json:"locale,omitempty"`
	Currency       *string              `json:"currency,omitempty"`
	Branding       BrandingOverrides    `json:"branding"`
	Performance    PerformanceOverrides `json:"performance"`
	Debug          DebugOverrides       `json:"debug"`
}
