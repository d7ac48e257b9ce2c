package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	FindMany(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, int, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	Update(ctx context.Context, id string, expected domain.AppointmentStatus, patch domain.AppointmentPatch) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, notes *string, updatedAt time.Time) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// WorkingHoursRepository интерфейс хранилища рабочего времени
type WorkingHoursRepository interface {
	GetByProvider(ctx context.Context, provider domain.Provider) (*domain.WeeklySchedule, error)
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	HasConflict(ctx context.Context, provider domain.Provider, date time.Time, at types.TimeString, excludeID *string) (bool, error)
}

// SlotCalculator интерфейс калькулятора свободных слотов
type SlotCalculator interface {
	AvailableSlots(ctx context.Context, provider domain.Provider, date time.Time, hours availability.WorkingHours) ([]types.TimeString, error)
}

// SlotLocker блокировка слота на время проверки и записи
type SlotLocker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий.
// Вызывается внутри транзакции записи; в проде это outbox.Writer.
type EventPublisher interface {
	Publish(ctx context.Context, event events.AppointmentEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики операций
type Metrics interface {
	RecordAppointmentOperation(operation, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе сервиса
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
