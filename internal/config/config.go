package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Env              string `mapstructure:"APP_ENV"`            // dev, prod
	LogLevel         string `mapstructure:"LOG_LEVEL"`          // zerolog level name
	ClinicName       string `mapstructure:"CLINIC_NAME"`        // report header
	SeedSampleData   bool   `mapstructure:"SEED_SAMPLE_DATA"`   // load the demonstration dataset at startup
	FakePatients     int    `mapstructure:"FAKE_PATIENTS"`      // extra generated patients
	FakeSeed         int64  `mapstructure:"FAKE_SEED"`          // generator seed, 0 picks a random one
	InputTimeLayout  string `mapstructure:"INPUT_TIME_LAYOUT"`  // layout for typed-in timestamps
	ReportTimeLayout string `mapstructure:"REPORT_TIME_LAYOUT"` // layout for printed timestamps
}

func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLINIC_NAME", "Boost Physio Clinic")
	v.SetDefault("SEED_SAMPLE_DATA", true)
	v.SetDefault("FAKE_PATIENTS", 0)
	v.SetDefault("FAKE_SEED", 1)
	v.SetDefault("INPUT_TIME_LAYOUT", "2006-01-02T15:04")
	v.SetDefault("REPORT_TIME_LAYOUT", "Mon 02 Jan 2006, 15:04")

	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "CLINIC_NAME", "SEED_SAMPLE_DATA",
		"FAKE_PATIENTS", "FAKE_SEED", "INPUT_TIME_LAYOUT", "REPORT_TIME_LAYOUT",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsDev() bool {
	return c.Env == "dev"
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.FakePatients < 0 {
		return errors.New("FAKE_PATIENTS must be >= 0")
	}
	if err := checkLayout(c.InputTimeLayout); err != nil {
		return fmt.Errorf("invalid INPUT_TIME_LAYOUT: %w", err)
	}
	if err := checkLayout(c.ReportTimeLayout); err != nil {
		return fmt.Errorf("invalid REPORT_TIME_LAYOUT: %w", err)
	}
	return nil
}

// checkLayout rejects empty layouts and layouts without any time field.
func checkLayout(layout string) error {
	if strings.TrimSpace(layout) == "" {
		return errors.New("layout is empty")
	}
	ref := time.Date(2026, 11, 23, 14, 5, 0, 0, time.UTC)
	if ref.Format(layout) == layout {
		return fmt.Errorf("layout %q has no time fields", layout)
	}
	return nil
}
