// Package warehouse opens database/sql connections to the cloud warehouses
// hosting the e-waste reporting tables.
package warehouse

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadProfile reads a single profile file into out and validates it.
func loadProfile(profilePath, kind string, out any) error {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to parse %s config: %w", kind, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("invalid %s config: %w", kind, err)
	}
	return nil
}
