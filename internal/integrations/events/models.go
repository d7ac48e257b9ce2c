package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// EventType тип события записи
type EventType string

const (
	EventCreated       EventType = "appointment.created"
	EventUpdated       EventType = "appointment.updated"
	EventStatusChanged EventType = "appointment.status_changed"
	EventCancelled     EventType = "appointment.cancelled"
)

// AppointmentEvent событие изменения записи
type AppointmentEvent struct {
	EventID        string    `json:"eventId"`
	Type           EventType `json:"type"`
	AppointmentID  string    `json:"appointmentId"`
	ClientID       string    `json:"clientId"`
	ProviderKind   string    `json:"providerKind"`
	ProviderID     string    `json:"providerId"`
	CompanyID      *string   `json:"companyId,omitempty"`
	ScheduledDate  string    `json:"scheduledDate"`
	ScheduledTime  string    `json:"scheduledTime"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewAppointmentEvent собирает событие по состоянию записи после изменения
func NewAppointmentEvent(t EventType, a *domain.Appointment, previous domain.AppointmentStatus, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		EventID:        uuid.NewString(),
		Type:           t,
		AppointmentID:  a.ID,
		ClientID:       a.ClientID,
		ProviderKind:   string(a.Provider.Kind),
		ProviderID:     a.Provider.ID,
		CompanyID:      a.Provider.CompanyID,
		ScheduledDate:  a.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:  a.ScheduledTime.String(),
		Status:         string(a.Status),
		PreviousStatus: string(previous),
		OccurredAt:     at,
	}
}
