package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hackgods/clinic-appointment-booking/internal/appointment"
	"github.com/hackgods/clinic-appointment-booking/internal/config"
	"github.com/hackgods/clinic-appointment-booking/internal/console"
	"github.com/hackgods/clinic-appointment-booking/internal/logging"
	"github.com/hackgods/clinic-appointment-booking/internal/report"
	"github.com/hackgods/clinic-appointment-booking/internal/sample"
	"github.com/hackgods/clinic-appointment-booking/internal/simulate"
)

// Generated patients get ids from here on so they never clash with the
// demonstration dataset.
const firstFakePatientID = 1000

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		seedSample   bool
		fakePatients int
	)

	root := &cobra.Command{
		Use:          "clinic",
		Short:        "Clinic appointment booking",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&seedSample, "seed-sample", true, "load the demonstration dataset")
	root.PersistentFlags().IntVar(&fakePatients, "fake-patients", -1, "number of generated patients to add (-1 uses FAKE_PATIENTS)")

	setup := func(cmd *cobra.Command) (config.Config, zerolog.Logger, *appointment.Registry, error) {
		cfg, err := config.Load()
		if err != nil {
			return config.Config{}, zerolog.Nop(), nil, fmt.Errorf("config load error: %w", err)
		}
		if cmd.Flags().Changed("seed-sample") {
			cfg.SeedSampleData = seedSample
		}
		if fakePatients >= 0 {
			cfg.FakePatients = fakePatients
		}

		log := logging.New(os.Stderr, cfg.Env, cfg.LogLevel)
		reg, err := buildRegistry(cfg, log, time.Now())
		if err != nil {
			return config.Config{}, zerolog.Nop(), nil, err
		}
		return cfg, log, reg, nil
	}

	menu := &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive booking menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, reg, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Str("env", cfg.Env).Int("patients", len(reg.Patients())).Msg("console starting")
			c := console.New(appointment.NewGuarded(reg), cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{
				ClinicName:   cfg.ClinicName,
				InputLayout:  cfg.InputTimeLayout,
				ReportLayout: cfg.ReportTimeLayout,
			}, log)
			return c.Run(ctx)
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the appointment summary and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, reg, err := setup(cmd)
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), cfg.ClinicName, report.Build(reg), cfg.ReportTimeLayout)
		},
	}

	var simCfg simulate.Config
	simCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run concurrent booking workers against the registry and print latency stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, reg, err := setup(cmd)
			if err != nil {
				return err
			}
			if simCfg.Seed == 0 {
				simCfg.Seed = cfg.FakeSeed
			}

			sim, err := simulate.New(appointment.NewGuarded(reg), simCfg, log.With().Str("component", "simulate").Logger())
			if err != nil {
				return fmt.Errorf("invalid simulation config: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := sim.Run(ctx); err != nil {
				return err
			}
			sim.PrintReport(cmd.OutOrStdout())
			return report.Render(cmd.OutOrStdout(), cfg.ClinicName, report.Build(reg), cfg.ReportTimeLayout)
		},
	}
	simCmd.Flags().IntVar(&simCfg.Workers, "workers", 10, "concurrent workers")
	simCmd.Flags().IntVar(&simCfg.OpsPerWorker, "ops", 100, "operations per worker")
	simCmd.Flags().Float64Var(&simCfg.BookingRatio, "booking-ratio", 0.5, "share of booking operations")
	simCmd.Flags().Float64Var(&simCfg.AttendRatio, "attend-ratio", 0.2, "share of attend operations")
	simCmd.Flags().Float64Var(&simCfg.ReadRatio, "read-ratio", 0.3, "share of per-patient reads")
	simCmd.Flags().Int64Var(&simCfg.Seed, "seed", 0, "worker random seed (0 uses FAKE_SEED)")

	root.AddCommand(menu, reportCmd, simCmd)
	root.RunE = menu.RunE
	return root
}

func buildRegistry(cfg config.Config, log zerolog.Logger, now time.Time) (*appointment.Registry, error) {
	reg := appointment.NewRegistry(appointment.WithLogger(log.With().Str("component", "registry").Logger()))

	if cfg.SeedSampleData {
		if err := sample.Seed(reg, now); err != nil {
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
	}
	if cfg.FakePatients > 0 {
		created, err := sample.FakePatients(reg, cfg.FakePatients, cfg.FakeSeed, firstFakePatientID)
		if err != nil {
			return nil, fmt.Errorf("generate patients: %w", err)
		}
		log.Info().Int("count", len(created)).Msg("generated patients")
	}
	return reg, nil
}
