package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// TimeRange is a half-open [Start, End) interval within a day
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// Contains reports whether t falls inside the range
func (r TimeRange) Contains(t types.TimeString) bool {
	return !t.IsBefore(r.Start) && t.IsBefore(r.End)
}

// WeeklySchedule holds a provider's working hours per weekday.
// A weekday without ranges is a day off.
type WeeklySchedule struct {
	Provider Provider
	Days     map[time.Weekday][]TimeRange
}

// NewWeeklySchedule creates an empty schedule for the provider
func NewWeeklySchedule(provider Provider) *WeeklySchedule {
	return &WeeklySchedule{
		Provider: provider,
		Days:     make(map[time.Weekday][]TimeRange),
	}
}

// Add appends a working range for the weekday
func (s *WeeklySchedule) Add(day time.Weekday, r TimeRange) {
	s.Days[day] = append(s.Days[day], r)
}

// IsWithinWorkingHours reports whether t on the given weekday is a working time
func (s *WeeklySchedule) IsWithinWorkingHours(t types.TimeString, day time.Weekday) bool {
	for _, r := range s.Days[day] {
		if r.Contains(t) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no working ranges are configured
func (s *WeeklySchedule) IsEmpty() bool {
	for _, ranges := range s.Days {
		if len(ranges) > 0 {
			return false
		}
	}
	return true
}

// Validate checks time formats and that ranges are non-empty and non-overlapping
func (s *WeeklySchedule) Validate() error {
	for day, ranges := range s.Days {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrValidation, day)
		}
		for i, r := range ranges {
			if err := r.Start.Validate(); err != nil {
				return fmt.Errorf("%w: %s start: %v", ErrValidation, day, err)
			}
			if err := r.End.Validate(); err != nil {
				return fmt.Errorf("%w: %s end: %v", ErrValidation, day, err)
			}
			if !r.Start.IsBefore(r.End) {
				return fmt.Errorf("%w: %s range %s-%s is empty", ErrValidation, day, r.Start, r.End)
			}
			for _, other := range ranges[i+1:] {
				if r.Start.IsBefore(other.End) && other.Start.IsBefore(r.End) {
					return fmt.Errorf("%w: %s ranges %s-%s and %s-%s overlap",
						ErrValidation, day, r.Start, r.End, other.Start, other.End)
				}
			}
		}
	}
	return nil
}
