package outbox

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	outboxRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/outbox"
)

// Store интерфейс хранилища outbox
type Store interface {
	Insert(ctx context.Context, rec outboxRepo.Record) error
	FetchUnpublished(ctx context.Context, limit int) ([]outboxRepo.Record, error)
	MarkPublished(ctx context.Context, ids []int64, at time.Time) error
}

// Sink получатель пачки событий (Kafka)
type Sink interface {
	PublishBatch(ctx context.Context, batch []events.AppointmentEvent) error
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
