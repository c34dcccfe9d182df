package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-appointment-booking/internal/config"
)

func TestBuildRegistry(t *testing.T) {
	cfg := config.Config{SeedSampleData: true, FakePatients: 3, FakeSeed: 9}
	reg, err := buildRegistry(cfg, zerolog.Nop(), time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	if got := len(reg.Patients()); got != 5 {
		t.Errorf("got %d patients, want 5", got)
	}
	if _, ok := reg.FindPatientByID(firstFakePatientID); !ok {
		t.Errorf("expected generated patient %d", firstFakePatientID)
	}
	if got := len(reg.Appointments()); got != 12 {
		t.Errorf("got %d appointments, want 12", got)
	}
}

func TestBuildRegistry_Empty(t *testing.T) {
	reg, err := buildRegistry(config.Config{}, zerolog.Nop(), time.Now())
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if len(reg.Patients()) != 0 || len(reg.Appointments()) != 0 {
		t.Error("expected an empty registry")
	}
}

func TestReportCommand(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs([]string{"report"})
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{
		"=== Boost Physio Clinic Report ===",
		"Practitioner: Dr. Smith",
		"Dr. Johnson: 0 attended appointments",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestMenuCommand_WithoutSampleData(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs([]string{"menu", "--seed-sample=false"})
	cmd.SetIn(strings.NewReader("6\n7\n"))
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Contains(out.String(), "Dr. Smith") {
		t.Error("sample data must not be loaded with --seed-sample=false")
	}
	if !strings.Contains(out.String(), "System exited. Goodbye!") {
		t.Errorf("missing exit message in:\n%s", out.String())
	}
}

func TestSimulateCommand(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs([]string{"simulate", "--workers", "4", "--ops", "10", "--fake-patients", "5"})
	cmd.SetOut(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, want := range []string{"SIMULATION REPORT", "Workers: 4", "=== Practitioner Ranking by Attended Appointments ==="} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestSimulateCommand_InvalidConfig(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", "error")

	cmd := rootCmd()
	cmd.SetArgs([]string{"simulate", "--workers", "0"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for zero workers")
	}
}
