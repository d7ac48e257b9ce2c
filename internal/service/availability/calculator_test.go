package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// fakeChecker считает занятыми слоты из taken
type fakeChecker struct {
	taken map[types.TimeString]bool
	err   error
	calls int
}

func (f *fakeChecker) HasConflict(_ context.Context, _ domain.Provider, _ time.Time, at types.TimeString, _ *string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.taken[at], nil
}

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestGrid_Slots(t *testing.T) {
	slots := DefaultGrid().Slots()
	require.Len(t, slots, 20)
	assert.Equal(t, types.TimeString("08:00"), slots[0])
	assert.Equal(t, types.TimeString("08:30"), slots[1])
	assert.Equal(t, types.TimeString("17:30"), slots[len(slots)-1])

	hourly := Grid{OpeningHour: 22, ClosingHour: 24, StepMinutes: 60}.Slots()
	assert.Equal(t, []types.TimeString{"22:00", "23:00"}, hourly)
}

func TestGrid_Validate(t *testing.T) {
	assert.NoError(t, DefaultGrid().Validate())
	assert.ErrorIs(t, Grid{OpeningHour: 18, ClosingHour: 8, StepMinutes: 30}.Validate(), ErrInvalidGrid)
	assert.ErrorIs(t, Grid{OpeningHour: 8, ClosingHour: 18, StepMinutes: 0}.Validate(), ErrInvalidGrid)
	assert.ErrorIs(t, Grid{OpeningHour: 8, ClosingHour: 25, StepMinutes: 30}.Validate(), ErrInvalidGrid)

	c := NewCalculator(Grid{}, &fakeChecker{})
	assert.Equal(t, DefaultGrid(), c.Grid())
}

func TestAvailableSlots_EmptyDayReturnsFullGrid(t *testing.T) {
	c := NewCalculator(DefaultGrid(), &fakeChecker{})

	slots, err := c.AvailableSlots(context.Background(), domain.NewProfessional("P1"), monday, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultGrid().Slots(), slots)
}

func TestAvailableSlots_ExcludesConflicts(t *testing.T) {
	checker := &fakeChecker{taken: map[types.TimeString]bool{"08:00": true, "14:00": true, "17:30": true}}
	c := NewCalculator(DefaultGrid(), checker)

	slots, err := c.AvailableSlots(context.Background(), domain.NewProfessional("P1"), monday, nil)
	require.NoError(t, err)
	assert.Len(t, slots, 17)
	for _, s := range slots {
		assert.False(t, checker.taken[s], s)
	}
	assert.Equal(t, types.TimeString("08:30"), slots[0])
}

func TestAvailableSlots_Idempotent(t *testing.T) {
	checker := &fakeChecker{taken: map[types.TimeString]bool{"10:00": true}}
	c := NewCalculator(DefaultGrid(), checker)
	provider := domain.NewEmployee("e-1", "c-1")

	first, err := c.AvailableSlots(context.Background(), provider, monday, nil)
	require.NoError(t, err)
	second, err := c.AvailableSlots(context.Background(), provider, monday, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAvailableSlots_WorkingHoursFilter(t *testing.T) {
	checker := &fakeChecker{taken: map[types.TimeString]bool{"09:30": true}}
	c := NewCalculator(DefaultGrid(), checker)

	schedule := domain.NewWeeklySchedule(domain.NewProfessional("P1"))
	schedule.Add(time.Monday, domain.TimeRange{Start: "09:00", End: "11:00"})

	slots, err := c.AvailableSlots(context.Background(), schedule.Provider, monday, schedule)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:00", "10:00", "10:30"}, slots)
	// вне рабочего времени детектор не вызывается
	assert.Equal(t, 4, checker.calls)

	tuesday := monday.AddDate(0, 0, 1)
	slots, err = c.AvailableSlots(context.Background(), schedule.Provider, tuesday, schedule)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_CheckerError(t *testing.T) {
	c := NewCalculator(DefaultGrid(), &fakeChecker{err: errors.New("boom")})

	_, err := c.AvailableSlots(context.Background(), domain.NewProfessional("P1"), monday, AlwaysOpen{})
	assert.ErrorIs(t, err, ErrInternal)
}
