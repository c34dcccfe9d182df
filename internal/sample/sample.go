// Package sample loads the clinic's demonstration dataset and can pad it with
// generated patients.
package sample

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/clinic-appointment-booking/internal/appointment"
)

const Weeks = 4

type slotTemplate struct {
	hour           int
	treatment      string
	practitionerID int
}

var weeklySlots = []slotTemplate{
	{10, "Neural Mobilisation", 1},
	{11, "Acupuncture", 1},
	{14, "Mobilisation of Spine", 2},
}

// Seed registers two practitioners, two patients and a four week timetable of
// one hour AVAILABLE slots starting on the day of now.
func Seed(reg *appointment.Registry, now time.Time) error {
	practitioners := []struct {
		id                       int
		name, address, telephone string
		expertise                []string
	}{
		{1, "Dr. Smith", "123 Main St", "555-1234", []string{"Physiotherapy", "Rehabilitation"}},
		{2, "Dr. Johnson", "456 Oak Ave", "555-5678", []string{"Osteopathy", "Massage Therapy"}},
	}
	for _, p := range practitioners {
		if _, err := reg.AddPractitioner(p.id, p.name, p.address, p.telephone, p.expertise...); err != nil {
			return fmt.Errorf("seed practitioner %d: %w", p.id, err)
		}
	}

	if _, err := reg.CreatePatient(101, "John Doe", "789 Elm St", "555-9012"); err != nil {
		return fmt.Errorf("seed patient 101: %w", err)
	}
	if _, err := reg.CreatePatient(102, "Jane Smith", "321 Pine Rd", "555-3456"); err != nil {
		return fmt.Errorf("seed patient 102: %w", err)
	}

	for week := 0; week < Weeks; week++ {
		day := now.AddDate(0, 0, 7*week)
		for _, s := range weeklySlots {
			start := time.Date(day.Year(), day.Month(), day.Day(), s.hour, 0, 0, 0, now.Location())
			if _, err := reg.CreateSlot(s.practitionerID, start, start.Add(time.Hour), s.treatment); err != nil {
				return fmt.Errorf("seed slot week %d %s: %w", week, s.treatment, err)
			}
		}
	}

	return nil
}

// FakePatients adds count generated patients with consecutive ids starting at
// firstID. A zero seed picks a random one.
func FakePatients(reg *appointment.Registry, count int, seed int64, firstID int) ([]*appointment.Patient, error) {
	faker := gofakeit.New(uint64(seed))

	created := make([]*appointment.Patient, 0, count)
	for i := 0; i < count; i++ {
		id := firstID + i
		address := fmt.Sprintf("%s, %s", faker.Street(), faker.City())
		p, err := reg.CreatePatient(id, faker.Name(), address, faker.Phone())
		if err != nil {
			return created, fmt.Errorf("fake patient %d: %w", id, err)
		}
		created = append(created, p)
	}
	return created, nil
}
