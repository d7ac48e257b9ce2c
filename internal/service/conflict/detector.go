package conflict

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Detector отвечает, занят ли слот провайдера активной записью
type Detector struct {
	store Store
}

// NewDetector создает детектор конфликтов
func NewDetector(store Store) *Detector {
	return &Detector{store: store}
}

// HasConflict ищет активную запись провайдера на ту же дату и время.
// Дата сравнивается по полуоткрытому диапазону [полночь, полночь+1д).
// excludeID исключает саму запись при переносе.
// Результат носит рекомендательный характер: окончательно слот резервирует уникальный индекс при записи.
func (d *Detector) HasConflict(ctx context.Context, provider domain.Provider, date time.Time, at types.TimeString, excludeID *string) (bool, error) {
	dayStart, dayEnd := domain.DayRange(date)

	conflict, err := d.store.HasConflict(ctx, domain.ConflictQuery{
		Provider:  provider,
		DayStart:  dayStart,
		DayEnd:    dayEnd,
		Time:      at,
		Statuses:  domain.ActiveStatuses,
		ExcludeID: excludeID,
	})
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - store error: %v", ErrInternal, err)
	}

	return conflict, nil
}
