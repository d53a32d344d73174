package warehouse

import (
	"database/sql"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
)

type SnowflakeConfig struct {
	Account   string `mapstructure:"account" validate:"required"`
	User      string `mapstructure:"user" validate:"required"`
	Password  string `mapstructure:"password" validate:"required"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
	Warehouse string `mapstructure:"warehouse"`
	Role      string `mapstructure:"role"`
}

func LoadSnowflakeConfig(profilePath string) (*SnowflakeConfig, error) {
	var cfg SnowflakeConfig
	if err := loadProfile(profilePath, "snowflake", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SnowflakeDSN(cfg SnowflakeConfig) (string, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create DSN: %w", err)
	}
	return dsn, nil
}

func OpenSnowflake(cfg SnowflakeConfig) (*sql.DB, error) {
	dsn, err := SnowflakeDSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Snowflake: %w", err)
	}
	return db, nil
}
