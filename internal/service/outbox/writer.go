package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	outboxRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/outbox"
)

// Writer сохраняет события в outbox в той же транзакции, что и изменение записи.
// В Kafka их отправляет Relay.
type Writer struct {
	store Store
}

// NewWriter создает writer поверх хранилища outbox
func NewWriter(store Store) *Writer {
	return &Writer{store: store}
}

// Publish ставит событие в очередь на отправку
func (w *Writer) Publish(ctx context.Context, event events.AppointmentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event %s: %v", ErrEnqueue, event.EventID, err)
	}

	err = w.store.Insert(ctx, outboxRepo.Record{
		EventID:     event.EventID,
		AggregateID: event.AppointmentID,
		EventType:   string(event.Type),
		Payload:     payload,
		CreatedAt:   event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEnqueue, err)
	}

	return nil
}
