// Package simulate drives a shared registry from concurrent workers and
// reports per-operation outcomes and latencies.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-appointment-booking/internal/appointment"
)

var errNothingToDo = errors.New("no candidate appointment")

type Config struct {
	Workers      int
	OpsPerWorker int
	BookingRatio float64
	AttendRatio  float64
	ReadRatio    float64
	Seed         int64
}

func (c Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0")
	}
	if c.OpsPerWorker <= 0 {
		return fmt.Errorf("ops per worker must be > 0")
	}
	if c.BookingRatio < 0 || c.AttendRatio < 0 || c.ReadRatio < 0 {
		return fmt.Errorf("ratios must be >= 0")
	}
	if c.BookingRatio+c.AttendRatio+c.ReadRatio == 0 {
		return fmt.Errorf("at least one ratio must be > 0")
	}
	return nil
}

func (c Config) normalized() Config {
	total := c.BookingRatio + c.AttendRatio + c.ReadRatio
	c.BookingRatio /= total
	c.AttendRatio /= total
	c.ReadRatio /= total
	return c
}

// OperationMetrics counts the outcomes of one operation kind. Latencies are
// kept sorted as they arrive so Stats can index percentiles directly.
type OperationMetrics struct {
	Total    int64
	Success  int64
	Conflict int64
	Skipped  int64
	Error    int64

	mu     sync.Mutex
	sorted []time.Duration
	sum    time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, err error) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case err == nil:
		atomic.AddInt64(&om.Success, 1)
	case errors.Is(err, appointment.ErrTimeConflict):
		atomic.AddInt64(&om.Conflict, 1)
	case errors.Is(err, errNothingToDo):
		atomic.AddInt64(&om.Skipped, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	defer om.mu.Unlock()
	i, _ := slices.BinarySearch(om.sorted, latency)
	om.sorted = slices.Insert(om.sorted, i, latency)
	om.sum += latency
}

// LatencyStats summarises the recorded latencies of one operation kind.
type LatencyStats struct {
	Avg, Min, Max, P50, P95 time.Duration
}

func (om *OperationMetrics) Stats() LatencyStats {
	om.mu.Lock()
	defer om.mu.Unlock()

	n := len(om.sorted)
	if n == 0 {
		return LatencyStats{}
	}
	return LatencyStats{
		Avg: om.sum / time.Duration(n),
		Min: om.sorted[0],
		Max: om.sorted[n-1],
		P50: om.percentile(50),
		P95: om.percentile(95),
	}
}

// percentile uses the nearest-rank method on the sorted latencies.
func (om *OperationMetrics) percentile(pct int) time.Duration {
	n := len(om.sorted)
	rank := (pct*n + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return om.sorted[rank-1]
}

type Metrics struct {
	Booking OperationMetrics
	Attend  OperationMetrics
	Read    OperationMetrics
}

type Simulator struct {
	config  Config
	locker  appointment.Locker
	log     zerolog.Logger
	metrics Metrics
}

func New(locker appointment.Locker, cfg Config, log zerolog.Logger) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{config: cfg.normalized(), locker: locker, log: log}, nil
}

func (s *Simulator) Metrics() *Metrics {
	return &s.metrics
}

// Run starts the workers and waits until each has finished its operations
// or ctx is done.
func (s *Simulator) Run(ctx context.Context) error {
	s.log.Info().
		Int("workers", s.config.Workers).
		Int("ops_per_worker", s.config.OpsPerWorker).
		Msg("simulation starting")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}
	wg.Wait()

	s.log.Info().Msg("simulation complete")
	return ctx.Err()
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(s.config.Seed + int64(workerID)))

	for i := 0; i < s.config.OpsPerWorker; i++ {
		if ctx.Err() != nil {
			return
		}
		r := rng.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.timed(ctx, &s.metrics.Booking, func(reg *appointment.Registry) error { return doBooking(reg, rng) })
		case r < s.config.BookingRatio+s.config.AttendRatio:
			s.timed(ctx, &s.metrics.Attend, func(reg *appointment.Registry) error { return doAttend(reg, rng) })
		default:
			s.timed(ctx, &s.metrics.Read, func(reg *appointment.Registry) error { return doRead(reg, rng) })
		}
	}
}

func (s *Simulator) timed(ctx context.Context, om *OperationMetrics, op func(reg *appointment.Registry) error) {
	start := time.Now()
	err := s.locker.WithLock(ctx, func(_ context.Context, reg *appointment.Registry) error {
		return op(reg)
	})
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return
	}
	om.Record(time.Since(start), err)
}

// doBooking books a random patient into a random open slot.
func doBooking(reg *appointment.Registry, rng *rand.Rand) error {
	patients := reg.Patients()
	open := withStatus(reg.Appointments(), appointment.StatusAvailable)
	if len(patients) == 0 || len(open) == 0 {
		return errNothingToDo
	}
	_, err := reg.BookAppointment(patients[rng.Intn(len(patients))], open[rng.Intn(len(open))])
	return err
}

func doAttend(reg *appointment.Registry, rng *rand.Rand) error {
	booked := withStatus(reg.Appointments(), appointment.StatusBooked)
	if len(booked) == 0 {
		return errNothingToDo
	}
	_, err := reg.AttendAppointment(booked[rng.Intn(len(booked))].BookingID())
	return err
}

func doRead(reg *appointment.Registry, rng *rand.Rand) error {
	patients := reg.Patients()
	if len(patients) == 0 {
		return errNothingToDo
	}
	reg.AppointmentsForPatient(patients[rng.Intn(len(patients))])
	return nil
}

func withStatus(all []*appointment.Appointment, status appointment.Status) []*appointment.Appointment {
	var out []*appointment.Appointment
	for _, a := range all {
		if a.Status() == status {
			out = append(out, a)
		}
	}
	return out
}

func (s *Simulator) PrintReport(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(w, "SIMULATION REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Workers: %d\n", s.config.Workers)
	fmt.Fprintf(w, "Operations per worker: %d\n", s.config.OpsPerWorker)
	fmt.Fprintln(w)

	printOperationReport(w, "Booking", &s.metrics.Booking)
	printOperationReport(w, "Attend", &s.metrics.Attend)
	printOperationReport(w, "Read by Patient", &s.metrics.Read)
}

func printOperationReport(w io.Writer, name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	skipped := atomic.LoadInt64(&om.Skipped)
	failed := atomic.LoadInt64(&om.Error)
	st := om.Stats()

	pct := func(n int64) float64 { return float64(n) / float64(total) * 100 }

	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "  Total: %d\n", total)
	fmt.Fprintf(w, "  Success: %d (%.1f%%)\n", success, pct(success))
	if conflict > 0 {
		fmt.Fprintf(w, "  Conflicts: %d (%.1f%%)\n", conflict, pct(conflict))
	}
	if skipped > 0 {
		fmt.Fprintf(w, "  Skipped: %d (%.1f%%)\n", skipped, pct(skipped))
	}
	if failed > 0 {
		fmt.Fprintf(w, "  Errors: %d (%.1f%%)\n", failed, pct(failed))
	}
	fmt.Fprintf(w, "  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		st.Avg.Round(time.Microsecond), st.Min.Round(time.Microsecond), st.Max.Round(time.Microsecond),
		st.P50.Round(time.Microsecond), st.P95.Round(time.Microsecond))
	fmt.Fprintln(w)
}
