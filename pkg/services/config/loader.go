package config

import (
	"fmt"
	"strings"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "EWASTE"

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadSettings reads settings from an optional file and EWASTE_* environment variables
// on top of DefaultSettings. An empty path skips the file.
func LoadSettings(path string) (domain.Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return domain.Settings{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings domain.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to parse report settings: %w", err)
	}
	if err := Validate(settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

func Validate(settings domain.Settings) error {
	if err := validate.Struct(settings); err != nil {
		return fmt.Errorf("invalid report settings: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper, d domain.Settings) {
	v.SetDefault("client_id", d.ClientID)
	v.SetDefault("client_name", d.ClientName)
	v.SetDefault("client_industry", d.ClientIndustry)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("currency", d.Currency)
	v.SetDefault("branding.company_name", d.Branding.CompanyName)
	v.SetDefault("branding.logo", d.Branding.Logo)
	v.SetDefault("branding.colors.primary", d.Branding.Colors.Primary)
	v.SetDefault("branding.colors.secondary", d.Branding.Colors.Secondary)
	v.SetDefault("branding.colors.accent", d.Branding.Colors.Accent)
	v.SetDefault("performance.enable_caching", d.Performance.EnableCaching)
	v.SetDefault("performance.cache_timeout", d.Performance.CacheTimeout)
	v.SetDefault("performance.fetch_timeout", d.Performance.FetchTimeout)
	v.SetDefault("performance.deduplicate_fetches", d.Performance.DeduplicateFetches)
	v.SetDefault("debug.enabled", d.Debug.Enabled)
}
