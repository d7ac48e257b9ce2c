package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при неизвестном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// TimeRangeDTO интервал рабочего времени [start, end)
type TimeRangeDTO struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "18:00"
}

// DayScheduleDTO рабочие интервалы одного дня недели
type DayScheduleDTO struct {
	Weekday string         `json:"weekday"` // "monday"
	Ranges  []TimeRangeDTO `json:"ranges"`
}

// ReplaceWorkingHoursRequest полное расписание провайдера. Отсутствующий день - выходной.
type ReplaceWorkingHoursRequest struct {
	Days []DayScheduleDTO `json:"days"`
}

// WorkingHoursResponse расписание провайдера
type WorkingHoursResponse struct {
	ProviderKind string           `json:"providerKind"`
	ProviderID   string           `json:"providerId"`
	Days         []DayScheduleDTO `json:"days"`
}

// ToDomainSchedule конвертирует запрос в domain модель
func (r *ReplaceWorkingHoursRequest) ToDomainSchedule(provider domain.Provider) (*domain.WeeklySchedule, error) {
	schedule := domain.NewWeeklySchedule(provider)
	for _, day := range r.Days {
		weekday, err := ParseWeekday(day.Weekday)
		if err != nil {
			return nil, err
		}
		for _, rng := range day.Ranges {
			schedule.Add(weekday, domain.TimeRange{
				Start: types.TimeString(rng.Start),
				End:   types.TimeString(rng.End),
			})
		}
	}
	return schedule, nil
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.WeeklySchedule) *WorkingHoursResponse {
	resp := &WorkingHoursResponse{
		ProviderKind: string(s.Provider.Kind),
		ProviderID:   s.Provider.ID,
		Days:         make([]DayScheduleDTO, 0, len(s.Days)),
	}

	// понедельник первым
	for i := 1; i <= 7; i++ {
		day := time.Weekday(i % 7)
		ranges := s.Days[day]
		if len(ranges) == 0 {
			continue
		}
		dto := DayScheduleDTO{Weekday: strings.ToLower(day.String()), Ranges: make([]TimeRangeDTO, 0, len(ranges))}
		for _, rng := range ranges {
			dto.Ranges = append(dto.Ranges, TimeRangeDTO{Start: rng.Start.String(), End: rng.End.String()})
		}
		resp.Days = append(resp.Days, dto)
	}

	return resp
}

// ParseWeekday разбирает название дня недели на английском ("monday", "Mon")
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || (len(name) == 3 && strings.HasPrefix(full, name)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}
