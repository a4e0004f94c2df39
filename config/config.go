package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Documents  DocumentsConfig  `mapstructure:"documents"`
	Taxes      TaxesConfig      `mapstructure:"taxes"`
	Deductions DeductionsConfig `mapstructure:"deductions"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DocumentsConfig sets how many line items each paginated document fits on a page.
type DocumentsConfig struct {
	EstimateCapacity        int `mapstructure:"estimate_capacity"`
	AbstractCapacity        int `mapstructure:"abstract_capacity"`
	MeasurementBookCapacity int `mapstructure:"measurement_book_capacity"`
}

// TaxesConfig holds the levies applied in the estimate totals chain.
type TaxesConfig struct {
	GSTPercent float64 `mapstructure:"gst_percent"`
	LWCPercent float64 `mapstructure:"lwc_percent"`
}

// DeductionsConfig holds the deduction form's quick-pick values.
type DeductionsConfig struct {
	SecurityDepositChoices []float64 `mapstructure:"security_deposit_choices"`
}

// EnvPrefix is prepended to every environment override, e.g.
// PANCHAYAT_TAXES_GST_PERCENT.
const EnvPrefix = "PANCHAYAT"

// Load reads config.yaml from configPath (or the working directory) when
// present, then applies environment overrides and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("documents.estimate_capacity", 10)
	v.SetDefault("documents.abstract_capacity", 10)
	v.SetDefault("documents.measurement_book_capacity", 12)
	v.SetDefault("taxes.gst_percent", 18.0)
	v.SetDefault("taxes.lwc_percent", 1.0)
	v.SetDefault("deductions.security_deposit_choices", []float64{0, 5, 10})
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Documents: DocumentsConfig{
			EstimateCapacity:        10,
			AbstractCapacity:        10,
			MeasurementBookCapacity: 12,
		},
		Taxes:      TaxesConfig{GSTPercent: 18, LWCPercent: 1},
		Deductions: DeductionsConfig{SecurityDepositChoices: []float64{0, 5, 10}},
	}
}

// Validate rejects capacities below one and percentages outside 0-100.
func (c *Config) Validate() error {
	capacities := map[string]int{
		"documents.estimate_capacity":         c.Documents.EstimateCapacity,
		"documents.abstract_capacity":         c.Documents.AbstractCapacity,
		"documents.measurement_book_capacity": c.Documents.MeasurementBookCapacity,
	}
	for key, n := range capacities {
		if n < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", key, n)
		}
	}
	if err := checkPercent("taxes.gst_percent", c.Taxes.GSTPercent); err != nil {
		return err
	}
	if err := checkPercent("taxes.lwc_percent", c.Taxes.LWCPercent); err != nil {
		return err
	}
	if len(c.Deductions.SecurityDepositChoices) == 0 {
		return fmt.Errorf("deductions.security_deposit_choices must not be empty")
	}
	for _, p := range c.Deductions.SecurityDepositChoices {
		if err := checkPercent("deductions.security_deposit_choices", p); err != nil {
			return err
		}
	}
	return nil
}

func checkPercent(key string, p float64) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("%s must be within 0-100, got %g", key, p)
	}
	return nil
}
