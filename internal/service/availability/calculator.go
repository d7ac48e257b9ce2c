package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Grid параметры сетки слотов: [OpeningHour, ClosingHour) с шагом StepMinutes
type Grid struct {
	OpeningHour int
	ClosingHour int
	StepMinutes int
}

// DefaultGrid 08:00-18:00, шаг 30 минут
func DefaultGrid() Grid {
	return Grid{
		OpeningHour: domain.DefaultOpeningHour,
		ClosingHour: domain.DefaultClosingHour,
		StepMinutes: domain.DefaultSlotStepMinutes,
	}
}

// Validate проверяет параметры сетки
func (g Grid) Validate() error {
	if g.OpeningHour < 0 || g.ClosingHour > 24 {
		return fmt.Errorf("%w: hours must be within 0..24", ErrInvalidGrid)
	}
	if g.ClosingHour <= g.OpeningHour {
		return fmt.Errorf("%w: closing hour %d must be after opening hour %d", ErrInvalidGrid, g.ClosingHour, g.OpeningHour)
	}
	if g.StepMinutes <= 0 {
		return fmt.Errorf("%w: step must be positive", ErrInvalidGrid)
	}
	return nil
}

// Slots перечисляет все слоты сетки по возрастанию
func (g Grid) Slots() []types.TimeString {
	closing := g.ClosingHour * 60
	slots := make([]types.TimeString, 0, (closing-g.OpeningHour*60)/g.StepMinutes)

	for m := g.OpeningHour * 60; m < closing; m += g.StepMinutes {
		slot, err := types.NewTimeStringFromMinutes(m)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}

	return slots
}

// Calculator вычисляет свободные слоты провайдера на день
type Calculator struct {
	grid     Grid
	conflict ConflictChecker
}

// NewCalculator создает калькулятор. Некорректная сетка заменяется сеткой по умолчанию.
func NewCalculator(grid Grid, conflict ConflictChecker) *Calculator {
	if grid.Validate() != nil {
		grid = DefaultGrid()
	}
	return &Calculator{grid: grid, conflict: conflict}
}

// Grid возвращает используемую сетку
func (c *Calculator) Grid() Grid {
	return c.grid
}

// AvailableSlots возвращает слоты сетки, попадающие в рабочее время и не занятые активной записью.
// hours == nil означает отсутствие ограничений по рабочему времени.
func (c *Calculator) AvailableSlots(ctx context.Context, provider domain.Provider, date time.Time, hours WorkingHours) ([]types.TimeString, error) {
	if hours == nil {
		hours = AlwaysOpen{}
	}
	weekday := date.Weekday()

	available := make([]types.TimeString, 0)
	for _, slot := range c.grid.Slots() {
		if !hours.IsWithinWorkingHours(slot, weekday) {
			continue
		}

		taken, err := c.conflict.HasConflict(ctx, provider, date, slot, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: AvailableSlots - slot %s: %v", ErrInternal, slot, err)
		}
		if !taken {
			available = append(available, slot)
		}
	}

	return available, nil
}
