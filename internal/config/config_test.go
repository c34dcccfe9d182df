package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "dev" {
		t.Errorf("got env %q, want dev", cfg.Env)
	}
	if !cfg.SeedSampleData {
		t.Error("expected sample data to be seeded by default")
	}
	if cfg.InputTimeLayout != "2006-01-02T15:04" {
		t.Errorf("got input layout %q", cfg.InputTimeLayout)
	}
	if cfg.ClinicName != "Boost Physio Clinic" {
		t.Errorf("got clinic name %q", cfg.ClinicName)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	t.Setenv("FAKE_PATIENTS", "25")
	t.Setenv("FAKE_SEED", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsDev() {
		t.Error("expected prod env")
	}
	if cfg.SeedSampleData {
		t.Error("expected SEED_SAMPLE_DATA=false to be honoured")
	}
	if cfg.FakePatients != 25 || cfg.FakeSeed != 7 {
		t.Errorf("got fake patients=%d seed=%d", cfg.FakePatients, cfg.FakeSeed)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("got log level %q", cfg.LogLevel)
	}
}

func TestLoad_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid LOG_LEVEL")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		LogLevel:         "info",
		InputTimeLayout:  "2006-01-02T15:04",
		ReportTimeLayout: "Mon 02 Jan 2006, 15:04",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative fake patients", func(c *Config) { c.FakePatients = -1 }},
		{"empty input layout", func(c *Config) { c.InputTimeLayout = "" }},
		{"layout without fields", func(c *Config) { c.ReportTimeLayout = "date" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
