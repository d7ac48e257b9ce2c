package domain

// Stats aggregated appointment counters
type Stats struct {
	Total            int
	Pending          int
	Accepted         int
	Completed        int
	Cancelled        int
	Rejected         int
	CompletionRate   float64 // percent
	CancellationRate float64 // percent
}

// NewStats computes derived rates. Both rates are 0 when total is 0.
func NewStats(total, pending, accepted, completed, cancelled, rejected int) Stats {
	s := Stats{
		Total:     total,
		Pending:   pending,
		Accepted:  accepted,
		Completed: completed,
		Cancelled: cancelled,
		Rejected:  rejected,
	}
	if total > 0 {
		s.CompletionRate = float64(completed) / float64(total) * 100
		s.CancellationRate = float64(cancelled) / float64(total) * 100
	}
	return s
}
