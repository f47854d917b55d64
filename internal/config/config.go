// Package config reads and validates the sheetsync settings.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/transport"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/constants"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// EnvPrefix is prepended to every environment variable viper reads.
const EnvPrefix = "SHEETSYNC"

// Mapping store backends.
const (
	StoreWorkbook = "workbook"
	StoreYAML     = "yaml"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Data sources.
const (
	SourceHTTP    = "http"
	SourceFixture = "fixture"
)

// Settings is the validated configuration of a sheetsync run.
type Settings struct {
	Workbook     string
	MappingStore string
	MappingFile  string
	PostgresDSN  string
	Source       string
	FixtureDir   string
	MetricsFile  string
	DryRun       bool
	API          API
	Resources    map[string]string // resource id -> endpoint override
}

// API configures the HTTP data source.
type API struct {
	BaseURL       string
	KeyEnv        string
	AuthScheme    string
	AuthHeader    string
	RatePerSecond float64
	Burst         int
	Timeout       time.Duration
	MaxPages      int
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("workbook", "portfolio.xlsx")
	v.SetDefault("mapping_store", StoreWorkbook)
	v.SetDefault("mapping_file", "mappings.yaml")
	v.SetDefault("source", SourceHTTP)
	v.SetDefault("fixture_dir", "testdata")
	v.SetDefault("api.base_url", "https://live.trading212.com")
	v.SetDefault("api.key_env", "TRADING212_API_KEY")
	v.SetDefault("api.auth_scheme", transport.SchemeHeader)
	v.SetDefault("api.auth_header", "Authorization")
	v.SetDefault("api.rate_per_second", constants.DefaultRatePerSecond)
	v.SetDefault("api.burst", 1)
	v.SetDefault("api.timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("api.max_pages", 10)
}

// FromViper builds Settings from v. The result is not validated.
func FromViper(v *viper.Viper) *Settings {
	s := &Settings{
		Workbook:     v.GetString("workbook"),
		MappingStore: strings.ToLower(v.GetString("mapping_store")),
		MappingFile:  v.GetString("mapping_file"),
		PostgresDSN:  v.GetString("postgres_dsn"),
		Source:       strings.ToLower(v.GetString("source")),
		FixtureDir:   v.GetString("fixture_dir"),
		MetricsFile:  v.GetString("metrics_file"),
		DryRun:       v.GetBool("dry_run"),
		API: API{
			BaseURL:       strings.TrimRight(v.GetString("api.base_url"), "/"),
			KeyEnv:        v.GetString("api.key_env"),
			AuthScheme:    v.GetString("api.auth_scheme"),
			AuthHeader:    v.GetString("api.auth_header"),
			RatePerSecond: v.GetFloat64("api.rate_per_second"),
			Burst:         v.GetInt("api.burst"),
			Timeout:       v.GetDuration("api.timeout"),
			MaxPages:      v.GetInt("api.max_pages"),
		},
		Resources: make(map[string]string),
	}
	for id, endpoint := range v.GetStringMapString("resources") {
		s.Resources[strings.ToUpper(id)] = endpoint
	}
	return s
}

// Validate checks that the settings describe a runnable configuration.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Workbook) == "" {
		return errors.NewConfigError("workbook", "a workbook path is required", nil)
	}

	switch s.MappingStore {
	case StoreWorkbook, StoreMemory:
	case StoreYAML:
		if s.MappingFile == "" {
			return errors.NewConfigError("mapping_file", "required when mapping_store is yaml", nil)
		}
	case StorePostgres:
		if s.PostgresDSN == "" {
			return errors.NewConfigError("postgres_dsn", "required when mapping_store is postgres", nil)
		}
	default:
		return errors.NewConfigError("mapping_store", fmt.Sprintf("unknown store %q", s.MappingStore), nil)
	}

	switch s.Source {
	case SourceFixture:
		if s.FixtureDir == "" {
			return errors.NewConfigError("fixture_dir", "required when source is fixture", nil)
		}
	case SourceHTTP:
		if err := s.API.validate(); err != nil {
			return err
		}
	default:
		return errors.NewConfigError("source", fmt.Sprintf("unknown source %q", s.Source), nil)
	}
	return nil
}

func (a API) validate() error {
	u, err := url.Parse(a.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigError("api.base_url", fmt.Sprintf("invalid base url %q", a.BaseURL), err)
	}
	if a.RatePerSecond < 0 {
		return errors.NewConfigError("api.rate_per_second", "must not be negative", nil)
	}
	if a.Timeout < 0 {
		return errors.NewConfigError("api.timeout", "must not be negative", nil)
	}
	if a.MaxPages < 0 {
		return errors.NewConfigError("api.max_pages", "must not be negative", nil)
	}
	return nil
}

// APIKey returns the key named by API.KeyEnv. Viper is consulted before the
// process environment so that keys can live in the config file.
func (s *Settings) APIKey(v *viper.Viper) string {
	if s.API.KeyEnv == "" {
		return ""
	}
	if key := v.GetString(s.API.KeyEnv); key != "" {
		return key
	}
	return os.Getenv(s.API.KeyEnv)
}
