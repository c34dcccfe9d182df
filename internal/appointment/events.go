package appointment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventPatientCreated         = "PATIENT_CREATED"
	EventPatientRemoved         = "PATIENT_REMOVED"
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentAttended    = "APPOINTMENT_ATTENDED"
)

// Event is one entry of the registry's append-only audit trail.
type Event struct {
	ID        uuid.UUID
	Type      string
	BookingID int // zero for patient events
	PatientID int // zero when no patient is involved
	Payload   json.RawMessage
	CreatedAt time.Time
}

func (r *Registry) logEvent(eventType string, bookingID, patientID int, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.log.Error().Err(err).Str("event", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	ev := Event{
		ID:        uuid.New(),
		Type:      eventType,
		BookingID: bookingID,
		PatientID: patientID,
		Payload:   data,
		CreatedAt: r.now(),
	}
	r.events = append(r.events, ev)

	r.log.Info().
		Str("event", eventType).
		Str("event_id", ev.ID.String()).
		Int("booking_id", bookingID).
		Int("patient_id", patientID).
		RawJSON("payload", payloadOrEmpty(data)).
		Msg("registry event")
}

func payloadOrEmpty(data []byte) []byte {
	if len(data) == 0 {
		return []byte("{}")
	}
	return data
}
