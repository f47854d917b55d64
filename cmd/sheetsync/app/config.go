package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/config"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/errors"
)

// Config holds the CLI configuration loaded from flags, environment
// variables, .env files and the config file. Settings of the sync run itself
// live in internal/config and are read from the same viper instance.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration into v from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (SHEETSYNC_ prefix)
// 3. .env files
// 4. Config file (~/.sheetsync.yaml or ./.sheetsync.yaml)
// 5. Defaults
func LoadConfig(v *viper.Viper) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	config.SetDefaults(v)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".sheetsync")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	return &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		LogOutput:  v.GetString("log_output"),
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over the config file and env vars, so
// empty strings leave the loaded values in place.
func (c *Config) UpdateFromFlags(verbose, quiet bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// readConfigFile reads an explicitly named config file into v.
func readConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.NewConfigError("config", "reading "+path, err)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local does not override variables set by .env or the shell.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
