// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/taxstmt/internal/pdftext"
)

// EnvPrefix prefixes every environment override, e.g. TAXSTMT_LOG_LEVEL.
const EnvPrefix = "TAXSTMT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	PDF struct {
		Extractor     string `mapstructure:"extractor" yaml:"extractor"`
		PdftotextPath string `mapstructure:"pdftotext_path" yaml:"pdftotext_path"`
	} `mapstructure:"pdf" yaml:"pdf"`

	Transform struct {
		MapFile string `mapstructure:"map_file" yaml:"map_file"`
	} `mapstructure:"transform" yaml:"transform"`

	Input struct {
		Root string `mapstructure:"root" yaml:"root"`
	} `mapstructure:"input" yaml:"input"`

	Parsers struct {
		StatementDate       string `mapstructure:"statement_date" yaml:"statement_date"`
		MissingDateSentinel string `mapstructure:"missing_date_sentinel" yaml:"missing_date_sentinel"`
		AccountFromFilename bool   `mapstructure:"account_from_filename" yaml:"account_from_filename"`
	} `mapstructure:"parsers" yaml:"parsers"`
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	if c.CSV.Delimiter == "" {
		return ','
	}
	return []rune(c.CSV.Delimiter)[0]
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads defaults, then configFile (or config.yaml from the
// standard locations when empty), then TAXSTMT_* environment variables.
// An explicit configFile must exist; a missing default file is fine.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.taxstmt")
		v.AddConfigPath(".taxstmt")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("pdf.extractor", pdftext.KindAuto)
	v.SetDefault("pdf.pdftotext_path", "pdftotext")

	v.SetDefault("transform.map_file", "")
	v.SetDefault("input.root", "")

	v.SetDefault("parsers.statement_date", "")
	v.SetDefault("parsers.missing_date_sentinel", "")
	v.SetDefault("parsers.account_from_filename", false)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	switch strings.ToLower(config.PDF.Extractor) {
	case pdftext.KindAuto, pdftext.KindPdftotext, pdftext.KindLibrary:
	default:
		return fmt.Errorf("invalid pdf extractor: %s (must be auto, pdftotext or library)", config.PDF.Extractor)
	}

	return nil
}
