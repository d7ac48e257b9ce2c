package domain

import (
	"math"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentFilter describes a read query against the appointment store.
// Ownership keys (ClientID, Provider, CompanyID) and the optional filters are ANDed.
type AppointmentFilter struct {
	ClientID  *string
	Provider  *Provider
	CompanyID *string
	Status    *AppointmentStatus
	DateFrom  *time.Time // inclusive
	DateTo    *time.Time // inclusive
	Skip      int
	Take      int // 0 = no limit
}

// ConflictQuery asks whether a provider's slot is already occupied
type ConflictQuery struct {
	Provider  Provider
	DayStart  time.Time
	DayEnd    time.Time
	Time      types.TimeString
	Statuses  []AppointmentStatus
	ExcludeID *string
}

// Page is a paginated slice of appointments
type Page struct {
	Data    []*Appointment
	Total   int
	Page    int
	Limit   int
	HasNext bool
	HasPrev bool
}

// NewPage builds page metadata from skip/take and the total row count.
// HasNext is computed without skip+take so a huge skip cannot overflow.
func NewPage(data []*Appointment, total, skip, take int) *Page {
	if data == nil {
		data = []*Appointment{}
	}
	page := 1
	if take > 0 {
		page = skip / take
		if page < math.MaxInt {
			page++
		}
	}
	return &Page{
		Data:    data,
		Total:   total,
		Page:    page,
		Limit:   take,
		HasNext: skip < total && take < total-skip,
		HasPrev: skip > 0,
	}
}
