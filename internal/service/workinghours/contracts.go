package workinghours

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// WorkingHoursRepository интерфейс репозитория рабочего времени
type WorkingHoursRepository interface {
	GetByProvider(ctx context.Context, provider domain.Provider) (*domain.WeeklySchedule, error)
	Replace(ctx context.Context, schedule *domain.WeeklySchedule) error
	DeleteByProvider(ctx context.Context, provider domain.Provider) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
