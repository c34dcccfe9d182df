package console

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hackgods/clinic-appointment-booking/internal/appointment"
)

// errRescheduleConflict marks a time conflict raised while moving a booking.
var errRescheduleConflict = errors.New("reschedule conflict")

func (c *Console) printError(err error) {
	switch {
	case errors.Is(err, errRescheduleConflict):
		c.printf("Error: Patient already has an appointment at this time.\n")
		c.printf("The booking being moved still counts, so the new time must not overlap it.\n")
	case errors.Is(err, appointment.ErrDuplicateID):
		c.printf("Error: Patient ID already exists.\n")
	case errors.Is(err, appointment.ErrPatientNotFound):
		c.printf("Error: Patient not found.\n")
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		c.printf("Error: No appointment found with that booking ID.\n")
	case errors.Is(err, appointment.ErrHasActiveAppointments):
		c.printf("Error: Patient has active appointments. Cancel them first.\n")
	case errors.Is(err, appointment.ErrTimeConflict):
		c.printf("Error: Patient already has an appointment at this time.\n")
	case errors.Is(err, appointment.ErrInvalidState):
		c.printf("Error: Only booked appointments can be changed that way (%v).\n", err)
	case errors.Is(err, appointment.ErrInvalidSelection):
		c.printf("Invalid selection.\n")
	case errors.Is(err, appointment.ErrInvalidInput):
		c.printf("Invalid input: %v\n", err)
	default:
		c.printf("Error: %v\n", err)
	}
}

func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "gt":
			msgs = append(msgs, field+" must be greater than "+e.Param())
		case "max":
			msgs = append(msgs, field+" must be at most "+e.Param()+" characters")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	sort.Strings(msgs)
	return strings.Join(msgs, ", ")
}
