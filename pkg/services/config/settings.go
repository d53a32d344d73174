package config

import (
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
)

const (
	DefaultCacheTimeout = 5 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

// DefaultSettings returns the base layer of every merge.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		ClientName:     "Client",
		ClientIndustry: "technology",
		Locale:         "en-US",
		Currency:       "USD",
		Branding: domain.Branding{
			CompanyName: "E-Waste Solutions",
			Colors: domain.BrandColors{
				Primary:   "#2e7d32",
				Secondary: "#1565c0",
				Accent:    "#f9a825",
			},
		},
		Performance: domain.PerformanceSettings{
			EnableCaching: true,
			CacheTimeout:  DefaultCacheTimeout,
			FetchTimeout:  DefaultFetchTimeout,
		},
	}
}

// Merge layers environment over base, then caller over the result.
// Precedence is caller > environment > base; nil override fields are skipped.
func Merge(base domain.Settings, environment, caller *domain.Overrides) domain.Settings {
	out := base
	apply(&out, environment)
	apply(&out, caller)
	return out
}

func apply(s *domain.Settings, o *domain.Overrides) {
	if o == nil {
		return
	}
	setString(&s.ClientID, o.ClientID)
	setString(&s.ClientName, o.ClientName)
	setString(&s.ClientIndustry, o.ClientIndustry)
	setString(&s.Locale, o.Locale)
	setString(&s.Currency, o.Currency)

	setString(&s.Branding.CompanyName, o.Branding.CompanyName)
	setString(&s.Branding.Logo, o.Branding.Logo)
	setString(&s.Branding.Colors.Primary, o.Branding.Colors.Primary)
	setString(&s.Branding.Colors.Secondary, o.Branding.Colors.Secondary)
	setString(&s.Branding.Colors.Accent, o.Branding.Colors.Accent)

	setBool(&s.Performance.EnableCaching, o.Performance.EnableCaching)
	setDuration(&s.Performance.CacheTimeout, o.Performance.CacheTimeout)
	setDuration(&s.Performance.FetchTimeout, o.Performance.FetchTimeout)
	setBool(&s.Performance.DeduplicateFetches, o.Performance.DeduplicateFetches)

	setBool(&s.Debug.Enabled, o.Debug.Enabled)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
