package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ConflictChecker интерфейс детектора конфликтов
type ConflictChecker interface {
	HasConflict(ctx context.Context, provider domain.Provider, date time.Time, at types.TimeString, excludeID *string) (bool, error)
}

// WorkingHours рабочее время провайдера
type WorkingHours interface {
	IsWithinWorkingHours(t types.TimeString, day time.Weekday) bool
}

// AlwaysOpen принимает любой слот сетки. Используется, когда расписание не задано.
type AlwaysOpen struct{}

func (AlwaysOpen) IsWithinWorkingHours(types.TimeString, time.Weekday) bool {
	return true
}
