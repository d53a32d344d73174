package warehouse

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/databricks/databricks-sql-go"
)

type DatabricksConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Token    string `mapstructure:"token" validate:"required"`
	HTTPPath string `mapstructure:"http_path" validate:"required"`
	Catalog  string `mapstructure:"catalog"`
	Schema   string `mapstructure:"schema"`
}

func LoadDatabricksConfig(profilePath string) (*DatabricksConfig, error) {
	var cfg DatabricksConfig
	if err := loadProfile(profilePath, "databricks", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabricksDSN builds a personal access token DSN for a SQL warehouse.
func DatabricksDSN(cfg DatabricksConfig) string {
	dsn := fmt.Sprintf("token:%s@%s%s", cfg.Token, cfg.Host, cfg.HTTPPath)

	params := url.Values{}
	if cfg.Catalog != "" {
		params.Set("catalog", cfg.Catalog)
	}
	if cfg.Schema != "" {
		params.Set("schema", cfg.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn
}

func OpenDatabricks(cfg DatabricksConfig) (*sql.DB, error) {
	db, err := sql.Open("databricks", DatabricksDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Databricks: %w", err)
	}
	return db, nil
}
