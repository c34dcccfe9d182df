package appointment

import (
	"slices"
	"strings"
	"time"
)

// Status is the lifecycle state of an Appointment.
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusBooked    Status = "BOOKED"
	StatusCancelled Status = "CANCELLED"
	StatusAttended  Status = "ATTENDED"
)

// Contact holds the identity and contact data shared by patients and
// practitioners. It is never modified after creation.
type Contact struct {
	ID        int
	Name      string
	Address   string
	Telephone string
}

// Patient is a person who books appointments.
type Patient struct {
	Contact
}

// Practitioner delivers treatments and lists the areas they are qualified in.
type Practitioner struct {
	Contact
	expertise []string
}

// AddExpertise appends an expertise area unless it is already present.
func (p *Practitioner) AddExpertise(expertise string) {
	if p.HasExpertise(expertise) {
		return
	}
	p.expertise = append(p.expertise, expertise)
}

// HasExpertise is an exact, case-sensitive match.
func (p *Practitioner) HasExpertise(expertise string) bool {
	return slices.Contains(p.expertise, expertise)
}

func (p *Practitioner) Expertise() []string {
	return slices.Clone(p.expertise)
}

func (p *Practitioner) ExpertiseString() string {
	return strings.Join(p.expertise, ", ")
}

// Appointment is a time-bounded treatment slot owned by a practitioner.
// The patient is set only while the status is BOOKED or ATTENDED.
type Appointment struct {
	bookingID    int
	start        time.Time
	end          time.Time
	treatment    string
	practitioner *Practitioner
	patient      *Patient
	status       Status
}

func (a *Appointment) BookingID() int { return a.bookingID }
func (a *Appointment) Start() time.Time { return a.start }
func (a *Appointment) End() time.Time { return a.end }
func (a *Appointment) Treatment() string { return a.treatment }
func (a *Appointment) Practitioner() *Practitioner { return a.practitioner }
func (a *Appointment) Patient() *Patient { return a.patient }
func (a *Appointment) Status() Status { return a.status }

// Book assigns the patient and marks the slot booked. It does not look at the
// current status; the registry checks preconditions before calling it.
func (a *Appointment) Book(p *Patient) {
	a.patient = p
	a.status = StatusBooked
}

// Cancel always clears the patient and marks the appointment cancelled.
func (a *Appointment) Cancel() {
	a.status = StatusCancelled
	a.patient = nil
}

// Attend moves a booked appointment to attended. Any other status is left
// untouched and false is returned.
func (a *Appointment) Attend() bool {
	if a.status != StatusBooked {
		return false
	}
	a.status = StatusAttended
	return true
}

// Overlaps reports whether [start, end) intersects the appointment's
// half-open interval. Touching intervals do not overlap.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.start.Before(end) && a.end.After(start)
}
