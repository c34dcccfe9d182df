// Package report builds the clinic summary from registry state. It never
// mutates the registry.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hackgods/clinic-appointment-booking/internal/appointment"
)

// NoPatient is printed for appointments without a patient.
const NoPatient = "None"

type Line struct {
	BookingID   int
	Start       time.Time
	Treatment   string
	PatientName string
	Status      appointment.Status
}

type Group struct {
	Practitioner *appointment.Practitioner
	Lines        []Line
}

type Rank struct {
	Practitioner *appointment.Practitioner
	Attended     int
}

type Summary struct {
	Groups  []Group
	Ranking []Rank
}

// Build groups appointments per practitioner in the order each practitioner
// first appears, and ranks every registered practitioner by attended count.
// Ties keep registration order.
func Build(reg *appointment.Registry) Summary {
	var s Summary
	index := make(map[*appointment.Practitioner]int)

	for _, a := range reg.Appointments() {
		pr := a.Practitioner()
		i, ok := index[pr]
		if !ok {
			i = len(s.Groups)
			index[pr] = i
			s.Groups = append(s.Groups, Group{Practitioner: pr})
		}

		name := NoPatient
		if p := a.Patient(); p != nil {
			name = p.Name
		}
		s.Groups[i].Lines = append(s.Groups[i].Lines, Line{
			BookingID:   a.BookingID(),
			Start:       a.Start(),
			Treatment:   a.Treatment(),
			PatientName: name,
			Status:      a.Status(),
		})
	}

	for _, pr := range reg.Practitioners() {
		s.Ranking = append(s.Ranking, Rank{Practitioner: pr, Attended: reg.CountAttended(pr)})
	}
	sort.SliceStable(s.Ranking, func(i, j int) bool {
		return s.Ranking[i].Attended > s.Ranking[j].Attended
	})

	return s
}

// Render writes the summary as plain text.
func Render(w io.Writer, clinic string, s Summary, layout string) error {
	ew := &errWriter{w: w}

	ew.printf("\n=== %s Report ===\n", clinic)
	ew.printf("=== Appointment Summary ===\n")
	for _, g := range s.Groups {
		ew.printf("\nPractitioner: %s\n", g.Practitioner.Name)
		ew.printf("Expertise: %s\n", g.Practitioner.ExpertiseString())
		for _, l := range g.Lines {
			ew.printf("- [%d] %s: %s (%s) - Status: %s\n",
				l.BookingID, l.Start.Format(layout), l.Treatment, l.PatientName, l.Status)
		}
	}

	ew.printf("\n=== Practitioner Ranking by Attended Appointments ===\n")
	for _, r := range s.Ranking {
		ew.printf("%s: %d attended appointments\n", r.Practitioner.Name, r.Attended)
	}

	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
