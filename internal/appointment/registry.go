package appointment

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Action selects what CancelOrReschedule does with a booking.
type Action string

const (
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
)

// Registry is the in-memory aggregate holding every patient, practitioner and
// appointment. It is the only code that mutates those collections.
//
// A Registry is not safe for concurrent use; wrap it in a Guarded when it is
// shared.
type Registry struct {
	patients          map[int]*Patient
	patientOrder      []int
	practitioners     map[int]*Practitioner
	practitionerOrder []int
	appointments      []*Appointment
	byBookingID       map[int]*Appointment
	nextBookingID     int
	events            []Event

	log zerolog.Logger
	now func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for committed mutations.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithClock overrides the clock used to timestamp events.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty registry whose first booking id is 1.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		patients:      make(map[int]*Patient),
		practitioners: make(map[int]*Practitioner),
		byBookingID:   make(map[int]*Appointment),
		nextBookingID: 1,
		log:           zerolog.Nop(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Patients

func (r *Registry) CreatePatient(id int, name, address, telephone string) (*Patient, error) {
	if _, ok := r.patients[id]; ok {
		return nil, fmt.Errorf("patient %d: %w", id, ErrDuplicateID)
	}

	p := &Patient{Contact: Contact{ID: id, Name: name, Address: address, Telephone: telephone}}
	r.patients[id] = p
	r.patientOrder = append(r.patientOrder, id)

	r.logEvent(EventPatientCreated, 0, id, map[string]any{"name": name})
	return p, nil
}

// RemovePatient deletes a patient that has no BOOKED or ATTENDED appointment.
func (r *Registry) RemovePatient(id int) error {
	p, ok := r.patients[id]
	if !ok {
		return fmt.Errorf("remove patient %d: %w", id, ErrPatientNotFound)
	}
	if r.hasActiveAppointments(p) {
		return fmt.Errorf("remove patient %d: %w", id, ErrHasActiveAppointments)
	}

	delete(r.patients, id)
	r.patientOrder = slices.DeleteFunc(r.patientOrder, func(v int) bool { return v == id })

	r.logEvent(EventPatientRemoved, 0, id, map[string]any{"name": p.Name})
	return nil
}

func (r *Registry) FindPatientByID(id int) (*Patient, bool) {
	p, ok := r.patients[id]
	return p, ok
}

// Patients returns the registered patients in registration order.
func (r *Registry) Patients() []*Patient {
	out := make([]*Patient, 0, len(r.patientOrder))
	for _, id := range r.patientOrder {
		out = append(out, r.patients[id])
	}
	return out
}

func (r *Registry) hasActiveAppointments(p *Patient) bool {
	for _, a := range r.appointments {
		if a.patient == p && (a.status == StatusBooked || a.status == StatusAttended) {
			return true
		}
	}
	return false
}

// Practitioners

func (r *Registry) AddPractitioner(id int, name, address, telephone string, expertise ...string) (*Practitioner, error) {
	if _, ok := r.practitioners[id]; ok {
		return nil, fmt.Errorf("practitioner %d: %w", id, ErrDuplicateID)
	}

	pr := &Practitioner{Contact: Contact{ID: id, Name: name, Address: address, Telephone: telephone}}
	for _, e := range expertise {
		pr.AddExpertise(e)
	}
	r.practitioners[id] = pr
	r.practitionerOrder = append(r.practitionerOrder, id)
	return pr, nil
}

func (r *Registry) AddExpertise(practitionerID int, expertise string) error {
	pr, ok := r.practitioners[practitionerID]
	if !ok {
		return fmt.Errorf("add expertise to %d: %w", practitionerID, ErrPractitionerNotFound)
	}
	pr.AddExpertise(expertise)
	return nil
}

func (r *Registry) FindPractitionerByID(id int) (*Practitioner, bool) {
	pr, ok := r.practitioners[id]
	return pr, ok
}

// Practitioners returns the registered practitioners in registration order.
func (r *Registry) Practitioners() []*Practitioner {
	out := make([]*Practitioner, 0, len(r.practitionerOrder))
	for _, id := range r.practitionerOrder {
		out = append(out, r.practitioners[id])
	}
	return out
}

// Appointments

// CreateSlot adds an AVAILABLE appointment with the next booking id.
func (r *Registry) CreateSlot(practitionerID int, start, end time.Time, treatment string) (*Appointment, error) {
	pr, ok := r.practitioners[practitionerID]
	if !ok {
		return nil, fmt.Errorf("create slot: %w", ErrPractitionerNotFound)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("create slot: start must be before end: %w", ErrInvalidInput)
	}

	a := &Appointment{
		bookingID:    r.nextBookingID,
		start:        start,
		end:          end,
		treatment:    treatment,
		practitioner: pr,
		status:       StatusAvailable,
	}
	r.append(a)
	return a, nil
}

// SeedAppointment inserts an appointment with an explicit booking id and
// status. It exists for fixtures and tests; the booking-id counter is moved
// past the seeded id. Only AVAILABLE and CANCELLED can be seeded since
// those are the statuses without a patient.
func (r *Registry) SeedAppointment(bookingID int, start, end time.Time, treatment string, practitionerID int, status Status) (*Appointment, error) {
	if _, ok := r.byBookingID[bookingID]; ok {
		return nil, fmt.Errorf("appointment %d: %w", bookingID, ErrDuplicateID)
	}
	pr, ok := r.practitioners[practitionerID]
	if !ok {
		return nil, fmt.Errorf("seed appointment %d: %w", bookingID, ErrPractitionerNotFound)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("seed appointment %d: start must be before end: %w", bookingID, ErrInvalidInput)
	}
	if status != StatusAvailable && status != StatusCancelled {
		return nil, fmt.Errorf("seed appointment %d: status %q needs a patient: %w", bookingID, status, ErrInvalidInput)
	}

	a := &Appointment{
		bookingID:    bookingID,
		start:        start,
		end:          end,
		treatment:    treatment,
		practitioner: pr,
		status:       status,
	}
	r.append(a)
	return a, nil
}

func (r *Registry) append(a *Appointment) {
	r.appointments = append(r.appointments, a)
	r.byBookingID[a.bookingID] = a
	if a.bookingID >= r.nextBookingID {
		r.nextBookingID = a.bookingID + 1
	}
}

func (r *Registry) FindAppointment(bookingID int) (*Appointment, bool) {
	a, ok := r.byBookingID[bookingID]
	return a, ok
}

// Appointments returns every appointment in creation order.
func (r *Registry) Appointments() []*Appointment {
	return slices.Clone(r.appointments)
}

// AppointmentsForPatient returns the appointments currently held by p.
func (r *Registry) AppointmentsForPatient(p *Patient) []*Appointment {
	return r.filter(func(a *Appointment) bool { return a.patient != nil && a.patient == p })
}

func (r *Registry) SearchAvailableByExpertise(expertise string) []*Appointment {
	return r.filter(func(a *Appointment) bool {
		return a.status == StatusAvailable && a.practitioner.HasExpertise(expertise)
	})
}

// SearchAvailableByPractitionerName matches the full practitioner name,
// ignoring case.
func (r *Registry) SearchAvailableByPractitionerName(name string) []*Appointment {
	return r.filter(func(a *Appointment) bool {
		return a.status == StatusAvailable && strings.EqualFold(a.practitioner.Name, name)
	})
}

func (r *Registry) filter(keep func(*Appointment) bool) []*Appointment {
	var out []*Appointment
	for _, a := range r.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// HasTimeConflict reports whether the patient holds a non-cancelled
// appointment overlapping [start, end).
func (r *Registry) HasTimeConflict(p *Patient, start, end time.Time) bool {
	if p == nil {
		return false
	}
	for _, a := range r.appointments {
		if a.patient == p && a.status != StatusCancelled && a.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// BookAppointment books a for p unless p already has an overlapping
// appointment. The slot's own status is not re-checked here; callers offer
// only AVAILABLE slots.
func (r *Registry) BookAppointment(p *Patient, a *Appointment) (*Appointment, error) {
	if p == nil || a == nil {
		return nil, fmt.Errorf("book appointment: patient and appointment are required: %w", ErrInvalidInput)
	}
	if r.HasTimeConflict(p, a.start, a.end) {
		return nil, fmt.Errorf("book appointment %d: %w", a.bookingID, ErrTimeConflict)
	}

	a.Book(p)

	r.logEvent(EventAppointmentBooked, a.bookingID, p.ID, map[string]any{
		"start":     a.start,
		"treatment": a.treatment,
	})
	return a, nil
}

// CancelOrReschedule dispatches to CancelAppointment or RescheduleAppointment.
// newStart and newEnd are ignored for ActionCancel.
func (r *Registry) CancelOrReschedule(bookingID int, action Action, newStart, newEnd time.Time) (*Appointment, error) {
	switch action {
	case ActionCancel:
		return r.CancelAppointment(bookingID)
	case ActionReschedule:
		return r.RescheduleAppointment(bookingID, newStart, newEnd)
	default:
		return nil, fmt.Errorf("unknown action %q: %w", action, ErrInvalidInput)
	}
}

func (r *Registry) CancelAppointment(bookingID int) (*Appointment, error) {
	a, ok := r.byBookingID[bookingID]
	if !ok {
		return nil, fmt.Errorf("cancel appointment %d: %w", bookingID, ErrAppointmentNotFound)
	}

	patientID := 0
	if a.patient != nil {
		patientID = a.patient.ID
	}
	prev := a.status
	a.Cancel()

	r.logEvent(EventAppointmentCancelled, bookingID, patientID, map[string]any{"previous_status": prev})
	return a, nil
}

// RescheduleAppointment cancels the appointment and appends a new BOOKED one
// for the same patient, practitioner and treatment at [newStart, newEnd).
// The old record stays in the collection as CANCELLED.
func (r *Registry) RescheduleAppointment(bookingID int, newStart, newEnd time.Time) (*Appointment, error) {
	old, ok := r.byBookingID[bookingID]
	if !ok {
		return nil, fmt.Errorf("reschedule appointment %d: %w", bookingID, ErrAppointmentNotFound)
	}
	if !newStart.Before(newEnd) {
		return nil, fmt.Errorf("reschedule appointment %d: start must be before end: %w", bookingID, ErrInvalidInput)
	}
	patient := old.patient
	if patient == nil {
		return nil, fmt.Errorf("reschedule appointment %d: no patient on %s appointment: %w", bookingID, old.status, ErrInvalidState)
	}
	// The old appointment is still live at this point, so it counts too.
	if r.HasTimeConflict(patient, newStart, newEnd) {
		return nil, fmt.Errorf("reschedule appointment %d: %w", bookingID, ErrTimeConflict)
	}

	old.Cancel()
	moved := &Appointment{
		bookingID:    r.nextBookingID,
		start:        newStart,
		end:          newEnd,
		treatment:    old.treatment,
		practitioner: old.practitioner,
		patient:      patient,
		status:       StatusBooked,
	}
	r.append(moved)

	r.logEvent(EventAppointmentRescheduled, moved.bookingID, patient.ID, map[string]any{
		"previous_booking_id": bookingID,
		"start":               newStart,
		"end":                 newEnd,
	})
	return moved, nil
}

// AttendAppointment marks a BOOKED appointment as attended. Any other status
// yields ErrInvalidState and leaves the appointment untouched.
func (r *Registry) AttendAppointment(bookingID int) (*Appointment, error) {
	a, ok := r.byBookingID[bookingID]
	if !ok {
		return nil, fmt.Errorf("attend appointment %d: %w", bookingID, ErrAppointmentNotFound)
	}
	if a.patient == nil || !a.Attend() {
		return nil, fmt.Errorf("attend appointment %d: status is %s: %w", bookingID, a.status, ErrInvalidState)
	}

	r.logEvent(EventAppointmentAttended, bookingID, a.patient.ID, map[string]any{})
	return a, nil
}

// CountAttended counts the ATTENDED appointments of pr.
func (r *Registry) CountAttended(pr *Practitioner) int {
	n := 0
	for _, a := range r.appointments {
		if a.practitioner == pr && a.status == StatusAttended {
			n++
		}
	}
	return n
}

// Events returns a copy of the audit trail in commit order.
func (r *Registry) Events() []Event {
	return slices.Clone(r.events)
}
