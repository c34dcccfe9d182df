package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrDuplicateID           = errors.New("id already exists")
	ErrHasActiveAppointments = errors.New("patient has active appointments")
	ErrTimeConflict          = errors.New("patient already has an appointment at this time")
	ErrInvalidState          = errors.New("invalid appointment state")
	ErrInvalidSelection      = errors.New("invalid selection")
	ErrInvalidInput          = errors.New("invalid input")
)

var (
	ErrPatientNotFound      = fmt.Errorf("patient %w", ErrNotFound)
	ErrPractitionerNotFound = fmt.Errorf("practitioner %w", ErrNotFound)
	ErrAppointmentNotFound  = fmt.Errorf("appointment %w", ErrNotFound)
)
