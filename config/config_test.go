package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Logging != want.Logging {
		t.Errorf("logging = %+v, want %+v", cfg.Logging, want.Logging)
	}
	if cfg.Documents != want.Documents {
		t.Errorf("documents = %+v, want %+v", cfg.Documents, want.Documents)
	}
	if cfg.Taxes != want.Taxes {
		t.Errorf("taxes = %+v, want %+v", cfg.Taxes, want.Taxes)
	}
	if len(cfg.Deductions.SecurityDepositChoices) != 3 {
		t.Errorf("security deposit choices = %v, want 3 entries", cfg.Deductions.SecurityDepositChoices)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`
logging:
  level: debug
  format: console
documents:
  abstract_capacity: 15
taxes:
  gst_percent: 12
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Documents.AbstractCapacity != 15 {
		t.Errorf("abstract capacity = %d, want 15", cfg.Documents.AbstractCapacity)
	}
	if cfg.Documents.MeasurementBookCapacity != 12 {
		t.Errorf("measurement book capacity = %d, want default 12", cfg.Documents.MeasurementBookCapacity)
	}
	if cfg.Taxes.GSTPercent != 12 {
		t.Errorf("gst = %g, want 12", cfg.Taxes.GSTPercent)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PANCHAYAT_DOCUMENTS_MEASUREMENT_BOOK_CAPACITY", "20")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Documents.MeasurementBookCapacity != 20 {
		t.Errorf("measurement book capacity = %d, want 20", cfg.Documents.MeasurementBookCapacity)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("documents: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero estimate capacity", func(c *Config) { c.Documents.EstimateCapacity = 0 }},
		{"negative abstract capacity", func(c *Config) { c.Documents.AbstractCapacity = -1 }},
		{"gst over 100", func(c *Config) { c.Taxes.GSTPercent = 101 }},
		{"negative lwc", func(c *Config) { c.Taxes.LWCPercent = -1 }},
		{"no deposit choices", func(c *Config) { c.Deductions.SecurityDepositChoices = nil }},
		{"deposit choice out of range", func(c *Config) { c.Deductions.SecurityDepositChoices = []float64{0, 150} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}
