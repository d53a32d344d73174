package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// EnvironmentRegistry exposes per-environment setting overrides
type EnvironmentRegistry interface {
	Environments() []string
	Overrides(env string) (*domain.Overrides, error)
}

type iniRegistry struct {
	cfg *ini.File
}

// NewEnvironmentRegistry loads an INI file where every section names an environment:
//
//	[production]
//	performance.cache_timeout = 10m
//	debug.enabled = false
func NewEnvironmentRegistry(path string) (EnvironmentRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load environments: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

// NewEnvironmentRegistryFromBytes is NewEnvironmentRegistry for in-memory content.
func NewEnvironmentRegistryFromBytes(data []byte) (EnvironmentRegistry, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("load environments: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) Environments() []string {
	var envs []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			envs = append(envs, section.Name())
		}
	}
	return envs
}

func (r *iniRegistry) Overrides(env string) (*domain.Overrides, error) {
	section, err := r.cfg.GetSection(env)
	if err != nil {
		return nil, fmt.Errorf("environment %s not found", env)
	}

	o := &domain.Overrides{}
	for _, key := range section.Keys() {
		if err := assign(o, strings.ToLower(key.Name()), key); err != nil {
			return nil, fmt.Errorf("environment %s: %w", env, err)
		}
	}
	return o, nil
}

func assign(o *domain.Overrides, name string, key *ini.Key) error {
	str := func() *string { v := key.String(); return &v }

	switch name {
	case "client_id":
		o.ClientID = str()
	case "client_name":
		o.ClientName = str()
	case "client_industry":
		o.ClientIndustry = str()
	case "locale":
		o.Locale = str()
	case "currency":
		o.Currency = str()
	case "branding.company_name":
		o.Branding.CompanyName = str()
	case "branding.logo":
		o.Branding.Logo = str()
	case "branding.colors.primary":
		o.Branding.Colors.Primary = str()
	case "branding.colors.secondary":
		o.Branding.Colors.Secondary = str()
	case "branding.colors.accent":
		o.Branding.Colors.Accent = str()
	case "performance.enable_caching":
		return assignBool(&o.Performance.EnableCaching, key)
	case "performance.deduplicate_fetches":
		return assignBool(&o.Performance.DeduplicateFetches, key)
	case "performance.cache_timeout":
		return assignDuration(&o.Performance.CacheTimeout, key)
	case "performance.fetch_timeout":
		return assignDuration(&o.Performance.FetchTimeout, key)
	case "debug.enabled":
		return assignBool(&o.Debug.Enabled, key)
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	return nil
}

func assignBool(dst **bool, key *ini.Key) error {
	b, err := key.Bool()
	if err != nil {
		return fmt.Errorf("%s: %w", key.Name(), err)
	}
	*dst = &b
	return nil
}

// assignDuration accepts Go durations ("10m") or plain milliseconds ("300000").
func assignDuration(dst **time.Duration, key *ini.Key) error {
	if d, err := key.Duration(); err == nil {
		*dst = &d
		return nil
	}
	ms, err := key.Int64()
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", key.Name(), key.String())
	}
	d := time.Duration(ms) * time.Millisecond
	*dst = &d
	return nil
}
