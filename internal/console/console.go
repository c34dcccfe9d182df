// Package console is the interactive text menu in front of the registry.
// It owns all prompting, parsing and formatting; every registry call goes
// through an appointment.Locker.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/hackgods/clinic-appointment-booking/internal/appointment"
	"github.com/hackgods/clinic-appointment-booking/internal/report"
)

type Options struct {
	ClinicName   string
	InputLayout  string
	ReportLayout string
	Location     *time.Location // used when parsing typed-in timestamps
}

type Console struct {
	locker   appointment.Locker
	in       *bufio.Scanner
	out      io.Writer
	opts     Options
	validate *validator.Validate
	log      zerolog.Logger
}

func New(locker appointment.Locker, in io.Reader, out io.Writer, opts Options, log zerolog.Logger) *Console {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Console{
		locker:   locker,
		in:       bufio.NewScanner(in),
		out:      out,
		opts:     opts,
		validate: validator.New(),
		log:      log,
	}
}

type menuItem struct {
	label  string
	action func(ctx context.Context) error
}

func (c *Console) menu() []menuItem {
	return []menuItem{
		{"Add Patient", c.addPatient},
		{"Remove Patient", c.removePatient},
		{"Book Appointment", c.bookAppointment},
		{"Change/Cancel Appointment", c.changeOrCancel},
		{"Attend Appointment", c.attendAppointment},
		{"Generate Report", c.generateReport},
	}
}

// Run shows the main menu until the user exits, the input ends or ctx is
// done. Operation failures are printed and never stop the loop.
func (c *Console) Run(ctx context.Context) error {
	items := c.menu()
	exit := len(items) + 1

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printf("\n=== %s Booking System ===\n", c.opts.ClinicName)
		for i, item := range items {
			c.printf("%d. %s\n", i+1, item.label)
		}
		c.printf("%d. Exit\n", exit)

		choice, err := c.readInt("Select an option: ")
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.printError(err)
			continue
		}
		if choice == exit {
			break
		}
		if choice < 1 || choice > len(items) {
			c.printf("Invalid option. Please try again.\n")
			continue
		}

		item := items[choice-1]
		c.log.Debug().Str("action", item.label).Msg("menu action")
		if err := item.action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			c.log.Warn().Err(err).Str("action", item.label).Msg("action failed")
			c.printError(err)
		}
	}

	c.printf("System exited. Goodbye!\n")
	return nil
}

func (c *Console) do(ctx context.Context, fn func(r *appointment.Registry) error) error {
	return c.locker.WithLock(ctx, func(_ context.Context, r *appointment.Registry) error {
		return fn(r)
	})
}

type patientInput struct {
	ID        int    `validate:"gt=0"`
	Name      string `validate:"required,max=100"`
	Address   string `validate:"required"`
	Telephone string `validate:"required"`
}

func (c *Console) addPatient(ctx context.Context) error {
	c.printf("\n--- Add New Patient ---\n")
	id, err := c.readInt("Enter patient ID: ")
	if err != nil {
		return err
	}
	// Fail early on a taken id instead of after all the prompts.
	if err := c.do(ctx, func(r *appointment.Registry) error {
		if _, ok := r.FindPatientByID(id); ok {
			return fmt.Errorf("patient %d: %w", id, appointment.ErrDuplicateID)
		}
		return nil
	}); err != nil {
		return err
	}

	in := patientInput{ID: id}
	if in.Name, err = c.readLine("Enter full name: "); err != nil {
		return err
	}
	if in.Address, err = c.readLine("Enter address: "); err != nil {
		return err
	}
	if in.Telephone, err = c.readLine("Enter telephone number: "); err != nil {
		return err
	}
	if err := c.validate.Struct(in); err != nil {
		return fmt.Errorf("%s: %w", formatValidationErrors(err), appointment.ErrInvalidInput)
	}

	if err := c.do(ctx, func(r *appointment.Registry) error {
		_, err := r.CreatePatient(in.ID, in.Name, in.Address, in.Telephone)
		return err
	}); err != nil {
		return err
	}
	c.printf("Patient added successfully!\n")
	return nil
}

func (c *Console) removePatient(ctx context.Context) error {
	c.printf("\n--- Remove Patient ---\n")
	id, err := c.readInt("Enter patient ID to remove: ")
	if err != nil {
		return err
	}
	if err := c.do(ctx, func(r *appointment.Registry) error {
		return r.RemovePatient(id)
	}); err != nil {
		return err
	}
	c.printf("Patient removed successfully!\n")
	return nil
}

func (c *Console) bookAppointment(ctx context.Context) error {
	c.printf("\n--- Book Appointment ---\n")
	patientID, err := c.readInt("Enter patient ID: ")
	if err != nil {
		return err
	}

	var patient *appointment.Patient
	if err := c.do(ctx, func(r *appointment.Registry) error {
		p, ok := r.FindPatientByID(patientID)
		if !ok {
			return fmt.Errorf("patient %d: %w", patientID, appointment.ErrPatientNotFound)
		}
		patient = p
		return nil
	}); err != nil {
		return err
	}

	c.printf("Search by: 1) Expertise 2) Practitioner Name\n")
	option, err := c.readInt("Select option: ")
	if err != nil {
		return err
	}

	var search func(r *appointment.Registry, q string) []*appointment.Appointment
	var prompt string
	switch option {
	case 1:
		prompt, search = "Enter expertise: ", (*appointment.Registry).SearchAvailableByExpertise
	case 2:
		prompt, search = "Enter practitioner name: ", (*appointment.Registry).SearchAvailableByPractitionerName
	default:
		return fmt.Errorf("search option %d: %w", option, appointment.ErrInvalidInput)
	}
	query, err := c.readLine(prompt)
	if err != nil {
		return err
	}

	var available []*appointment.Appointment
	if err := c.do(ctx, func(r *appointment.Registry) error {
		available = search(r, query)
		return nil
	}); err != nil {
		return err
	}
	if len(available) == 0 {
		c.printf("No available appointments found.\n")
		return nil
	}

	c.printf("\nAvailable Appointments:\n")
	for i, a := range available {
		c.printf("%d. %s - %s (%s) with %s\n", i+1,
			a.Start().Format(c.opts.ReportLayout), a.Treatment(),
			a.Practitioner().ExpertiseString(), a.Practitioner().Name)
	}

	choice, err := c.readInt("Select appointment to book: ")
	if err != nil {
		return err
	}
	if choice < 1 || choice > len(available) {
		return fmt.Errorf("appointment choice %d: %w", choice, appointment.ErrInvalidSelection)
	}

	var booked *appointment.Appointment
	if err := c.do(ctx, func(r *appointment.Registry) error {
		var err error
		booked, err = r.BookAppointment(patient, available[choice-1])
		return err
	}); err != nil {
		return err
	}
	c.printf("Appointment booked successfully! Booking ID: %d\n", booked.BookingID())
	return nil
}

func (c *Console) changeOrCancel(ctx context.Context) error {
	bookingID, err := c.readInt("Enter booking ID to modify: ")
	if err != nil {
		return err
	}
	if err := c.do(ctx, func(r *appointment.Registry) error {
		if _, ok := r.FindAppointment(bookingID); !ok {
			return fmt.Errorf("booking %d: %w", bookingID, appointment.ErrAppointmentNotFound)
		}
		return nil
	}); err != nil {
		return err
	}

	c.printf("1. Cancel Appointment\n2. Reschedule Appointment\n")
	choice, err := c.readInt("Choose option: ")
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		if err := c.do(ctx, func(r *appointment.Registry) error {
			_, err := r.CancelOrReschedule(bookingID, appointment.ActionCancel, time.Time{}, time.Time{})
			return err
		}); err != nil {
			return err
		}
		c.printf("Appointment cancelled.\n")
	case 2:
		start, err := c.readTime(fmt.Sprintf("Enter new start time (%s): ", c.opts.InputLayout))
		if err != nil {
			return err
		}
		end, err := c.readTime(fmt.Sprintf("Enter new end time (%s): ", c.opts.InputLayout))
		if err != nil {
			return err
		}

		var moved *appointment.Appointment
		if err := c.do(ctx, func(r *appointment.Registry) error {
			var err error
			moved, err = r.CancelOrReschedule(bookingID, appointment.ActionReschedule, start, end)
			return err
		}); err != nil {
			if errors.Is(err, appointment.ErrTimeConflict) {
				return fmt.Errorf("%w: %w", errRescheduleConflict, err)
			}
			return err
		}
		c.printf("Appointment rescheduled. New booking ID: %d\n", moved.BookingID())
	default:
		return fmt.Errorf("change option %d: %w", choice, appointment.ErrInvalidInput)
	}
	return nil
}

func (c *Console) attendAppointment(ctx context.Context) error {
	bookingID, err := c.readInt("Enter booking ID to mark as attended: ")
	if err != nil {
		return err
	}
	if err := c.do(ctx, func(r *appointment.Registry) error {
		_, err := r.AttendAppointment(bookingID)
		return err
	}); err != nil {
		return err
	}
	c.printf("Appointment marked as attended.\n")
	return nil
}

func (c *Console) generateReport(ctx context.Context) error {
	var summary report.Summary
	if err := c.do(ctx, func(r *appointment.Registry) error {
		summary = report.Build(r)
		return nil
	}); err != nil {
		return err
	}
	return report.Render(c.out, c.opts.ClinicName, summary, c.opts.ReportLayout)
}

// Input helpers

func (c *Console) readLine(prompt string) (string, error) {
	c.printf("%s", prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) readInt(prompt string) (int, error) {
	line, err := c.readLine(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", line, appointment.ErrInvalidInput)
	}
	return n, nil
}

func (c *Console) readTime(prompt string) (time.Time, error) {
	line, err := c.readLine(prompt)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(c.opts.InputLayout, line, c.opts.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", line, appointment.ErrInvalidInput)
	}
	return t, nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
