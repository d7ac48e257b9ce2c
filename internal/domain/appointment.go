package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusAccepted  AppointmentStatus = "ACCEPTED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusRejected  AppointmentStatus = "REJECTED"
)

// IsValid reports whether the status is known
func (s AppointmentStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsActive returns true for statuses that still occupy a slot
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

// ParseStatus converts a raw string into an AppointmentStatus
func ParseStatus(s string) (AppointmentStatus, error) {
	status := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return status, nil
}

// Appointment is a client booking with a provider at a date and time
type Appointment struct {
	ID            string
	ClientID      string
	Provider      Provider
	ServiceID     string
	ScheduledDate time.Time // calendar date, time component is ignored
	ScheduledTime types.TimeString
	Status        AppointmentStatus
	Location      string
	ClientNotes   *string
	ProviderNotes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// ScheduledAt combines the scheduled date and time into a single moment
func (a *Appointment) ScheduledAt() time.Time {
	return a.ScheduledTime.On(a.ScheduledDate)
}

// Clone returns a copy that shares no pointers with the original
func (a *Appointment) Clone() *Appointment {
	c := *a
	if a.Provider.CompanyID != nil {
		companyID := *a.Provider.CompanyID
		c.Provider.CompanyID = &companyID
	}
	if a.ClientNotes != nil {
		notes := *a.ClientNotes
		c.ClientNotes = &notes
	}
	if a.ProviderNotes != nil {
		notes := *a.ProviderNotes
		c.ProviderNotes = &notes
	}
	return &c
}

// AppointmentPatch is a bounded partial update. Nil fields are left unchanged.
type AppointmentPatch struct {
	ScheduledDate *time.Time
	ScheduledTime *types.TimeString
	Location      *string
	ClientNotes   *string
	UpdatedAt     time.Time
}

// IsEmpty reports whether the patch changes nothing
func (p AppointmentPatch) IsEmpty() bool {
	return p.ScheduledDate == nil && p.ScheduledTime == nil && p.Location == nil && p.ClientNotes == nil
}

// ChangesSlot reports whether the patch touches the date or time
func (p AppointmentPatch) ChangesSlot() bool {
	return p.ScheduledDate != nil || p.ScheduledTime != nil
}

// ChangesDetails reports whether the patch touches fields editable only while PENDING
func (p AppointmentPatch) ChangesDetails() bool {
	return p.ChangesSlot() || p.Location != nil
}

// ApplyTo returns a copy of a with the patch applied
func (p AppointmentPatch) ApplyTo(a *Appointment) *Appointment {
	merged := a.Clone()
	if p.ScheduledDate != nil {
		merged.ScheduledDate = DateOnly(*p.ScheduledDate)
	}
	if p.ScheduledTime != nil {
		merged.ScheduledTime = *p.ScheduledTime
	}
	if p.Location != nil {
		merged.Location = *p.Location
	}
	if p.ClientNotes != nil {
		notes := *p.ClientNotes
		merged.ClientNotes = &notes
	}
	if !p.UpdatedAt.IsZero() {
		merged.UpdatedAt = p.UpdatedAt
	}
	return merged
}

// DateOnly drops the time component, keeping the location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns the half-open range [midnight, next midnight) of the day
func DayRange(t time.Time) (time.Time, time.Time) {
	start := DateOnly(t)
	return start, start.AddDate(0, 0, 1)
}
