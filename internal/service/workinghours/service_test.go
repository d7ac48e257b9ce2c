package workinghours

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	workingHoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByProvider(ctx context.Context, provider domain.Provider) (*domain.WeeklySchedule, error) {
	args := m.Called(ctx, provider)
	if s, ok := args.Get(0).(*domain.WeeklySchedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Replace(ctx context.Context, schedule *domain.WeeklySchedule) error {
	return m.Called(ctx, schedule).Error(0)
}

func (m *mockRepo) DeleteByProvider(ctx context.Context, provider domain.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

type inlineTx struct{ calls int }

func (t *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestService_Replace(t *testing.T) {
	repo := new(mockRepo)
	tx := &inlineTx{}
	svc := NewService(repo, tx, nopLogger{})

	repo.On("Replace", mock.Anything, mock.MatchedBy(func(s *domain.WeeklySchedule) bool {
		return s.Provider.Key() == "professional:P1" &&
			len(s.Days[time.Monday]) == 2 &&
			len(s.Days[time.Saturday]) == 1
	})).Return(nil).Once()

	resp, err := svc.Replace(context.Background(), "professional", "P1", &models.ReplaceWorkingHoursRequest{
		Days: []models.DayScheduleDTO{
			{Weekday: "saturday", Ranges: []models.TimeRangeDTO{{Start: "10:00", End: "14:00"}}},
			{Weekday: "Mon", Ranges: []models.TimeRangeDTO{{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "18:00"}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)

	require.Len(t, resp.Days, 2)
	assert.Equal(t, "monday", resp.Days[0].Weekday)
	assert.Equal(t, "saturday", resp.Days[1].Weekday)
	repo.AssertExpectations(t)
}

func TestService_Replace_Invalid(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &inlineTx{}, nopLogger{})

	cases := map[string]*models.ReplaceWorkingHoursRequest{
		"unknown weekday": {Days: []models.DayScheduleDTO{{Weekday: "someday"}}},
		"bad time":        {Days: []models.DayScheduleDTO{{Weekday: "monday", Ranges: []models.TimeRangeDTO{{Start: "9", End: "12:00"}}}}},
		"overlap": {Days: []models.DayScheduleDTO{{Weekday: "monday", Ranges: []models.TimeRangeDTO{
			{Start: "09:00", End: "12:00"}, {Start: "11:00", End: "13:00"},
		}}}},
	}
	for name, req := range cases {
		_, err := svc.Replace(context.Background(), "employee", "e-1", req)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}

	_, err := svc.Replace(context.Background(), "robot", "e-1", &models.ReplaceWorkingHoursRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
}

func TestService_Get(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, &inlineTx{}, nopLogger{})

	schedule := domain.NewWeeklySchedule(domain.NewProfessional("P1"))
	schedule.Add(time.Sunday, domain.TimeRange{Start: "10:00", End: "12:00"})
	repo.On("GetByProvider", mock.Anything, domain.Provider{Kind: domain.ProviderProfessional, ID: "P1"}).Return(schedule, nil)
	repo.On("GetByProvider", mock.Anything, domain.Provider{Kind: domain.ProviderProfessional, ID: "P2"}).
		Return(nil, workingHoursRepo.ErrWorkingHoursNotFound)
	repo.On("GetByProvider", mock.Anything, domain.Provider{Kind: domain.ProviderProfessional, ID: "P3"}).
		Return(nil, errors.New("db down"))

	resp, err := svc.Get(context.Background(), "professional", "P1")
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "sunday", resp.Days[0].Weekday)
	assert.Equal(t, models.TimeRangeDTO{Start: "10:00", End: "12:00"}, resp.Days[0].Ranges[0])

	_, err = svc.Get(context.Background(), "professional", "P2")
	assert.ErrorIs(t, err, ErrWorkingHoursNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(context.Background(), "professional", "P3")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestParseWeekday(t *testing.T) {
	d, err := models.ParseWeekday("Thu")
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, d)

	d, err = models.ParseWeekday(" SUNDAY ")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = models.ParseWeekday("th")
	assert.ErrorIs(t, err, models.ErrInvalidWeekday)
}
