package domain

// Default scheduling grid
const (
	DefaultOpeningHour     = 8
	DefaultClosingHour     = 18
	DefaultSlotStepMinutes = 30
)

// Business validation constants
const (
	MinLocationLength = 10
	MaxLocationLength = 500
	MaxNotesLength    = 500
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that still occupy a slot
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusAccepted,
}

// TerminalStatuses statuses that free the slot
var TerminalStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

// AllStatuses every known status in lifecycle order
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusAccepted,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}
