package appointment

import (
	"testing"
	"time"
)

var base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newTestAppointment(status Status) *Appointment {
	pr := &Practitioner{Contact: Contact{ID: 1, Name: "Dr. Test"}}
	return &Appointment{
		bookingID:    1,
		start:        base,
		end:          base.Add(time.Hour),
		treatment:    "Physiotherapy",
		practitioner: pr,
		status:       status,
	}
}

func TestPractitioner_AddExpertiseKeepsOrderAndSkipsDuplicates(t *testing.T) {
	pr := &Practitioner{}
	pr.AddExpertise("Physiotherapy")
	pr.AddExpertise("Rehabilitation")
	pr.AddExpertise("Physiotherapy")

	got := pr.Expertise()
	if len(got) != 2 || got[0] != "Physiotherapy" || got[1] != "Rehabilitation" {
		t.Fatalf("got %v, want [Physiotherapy Rehabilitation]", got)
	}
	if pr.ExpertiseString() != "Physiotherapy, Rehabilitation" {
		t.Errorf("got %q", pr.ExpertiseString())
	}
	if pr.HasExpertise("physiotherapy") {
		t.Error("expected case-sensitive expertise match")
	}

	got[0] = "changed"
	if !pr.HasExpertise("Physiotherapy") {
		t.Error("Expertise() must return a copy")
	}
}

func TestAppointment_Book(t *testing.T) {
	a := newTestAppointment(StatusAvailable)
	p := &Patient{Contact: Contact{ID: 101, Name: "Test Patient"}}

	a.Book(p)

	if a.Status() != StatusBooked {
		t.Errorf("got %s, want %s", a.Status(), StatusBooked)
	}
	if a.Patient() != p {
		t.Error("expected patient to be set")
	}
}

func TestAppointment_CancelFromEveryStatus(t *testing.T) {
	p := &Patient{Contact: Contact{ID: 101}}
	for _, status := range []Status{StatusAvailable, StatusBooked, StatusAttended, StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			a := newTestAppointment(status)
			if status == StatusBooked || status == StatusAttended {
				a.patient = p
			}

			a.Cancel()
			a.Cancel()

			if a.Status() != StatusCancelled {
				t.Errorf("got %s, want %s", a.Status(), StatusCancelled)
			}
			if a.Patient() != nil {
				t.Error("expected patient to be cleared")
			}
		})
	}
}

func TestAppointment_AttendOnlyFromBooked(t *testing.T) {
	tests := []struct {
		from Status
		want Status
		ok   bool
	}{
		{StatusBooked, StatusAttended, true},
		{StatusAvailable, StatusAvailable, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusAttended, StatusAttended, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			a := newTestAppointment(tt.from)
			if ok := a.Attend(); ok != tt.ok {
				t.Errorf("Attend() = %v, want %v", ok, tt.ok)
			}
			if a.Status() != tt.want {
				t.Errorf("got %s, want %s", a.Status(), tt.want)
			}
		})
	}
}

func TestAppointment_Overlaps(t *testing.T) {
	a := newTestAppointment(StatusBooked)
	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"partial overlap", base.Add(30 * time.Minute), base.Add(90 * time.Minute), true},
		{"contained", base.Add(10 * time.Minute), base.Add(20 * time.Minute), true},
		{"containing", base.Add(-time.Hour), base.Add(2 * time.Hour), true},
		{"touching after", base.Add(time.Hour), base.Add(2 * time.Hour), false},
		{"touching before", base.Add(-time.Hour), base, false},
		{"disjoint", base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
