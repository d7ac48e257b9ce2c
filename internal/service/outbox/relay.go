package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
)

const (
	DefaultPollInterval = time.Second
	DefaultBatchSize    = 100
)

// RelayConfig параметры пересылки
type RelayConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// Relay периодически забирает неотправленные события и пересылает их в Sink.
// Выборка, отправка и отметка выполняются в одной транзакции: при ошибке отправки
// события остаются в outbox и уходят на следующем тике (доставка at-least-once).
type Relay struct {
	store     Store
	sink      Sink
	txManager TransactionManager
	logger    Logger
	cfg       RelayConfig
	now       func() time.Time
}

// NewRelay создает relay
func NewRelay(store Store, sink Sink, txManager TransactionManager, logger Logger, cfg RelayConfig) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Relay{
		store:     store,
		sink:      sink,
		txManager: txManager,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run пересылает события до отмены ctx
func (r *Relay) Run(ctx context.Context) {
	r.logger.Info("Outbox relay started (poll=%s, batch=%d)", r.cfg.PollInterval, r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

// drain пересылает пачки, пока они приходят полными
func (r *Relay) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := r.RelayOnce(ctx)
		if err != nil {
			r.logger.Error("Outbox relay: %v", err)
			return
		}
		if n < r.cfg.BatchSize {
			return
		}
	}
}

// RelayOnce пересылает одну пачку и возвращает число обработанных событий
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var processed int

	err := r.txManager.Do(ctx, func(txCtx context.Context) error {
		records, err := r.store.FetchUnpublished(txCtx, r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("%w: fetch: %v", ErrRelay, err)
		}
		if len(records) == 0 {
			return nil
		}

		batch := make([]events.AppointmentEvent, 0, len(records))
		ids := make([]int64, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.ID)

			var event events.AppointmentEvent
			if err := json.Unmarshal(rec.Payload, &event); err != nil {
				// битое событие не должно блокировать очередь
				r.logger.Error("Outbox relay: dropping undecodable event id=%s: %v", rec.EventID, err)
				continue
			}
			batch = append(batch, event)
		}

		if len(batch) > 0 {
			if err := r.sink.PublishBatch(txCtx, batch); err != nil {
				return fmt.Errorf("%w: publish %d events: %v", ErrRelay, len(batch), err)
			}
		}

		if err := r.store.MarkPublished(txCtx, ids, r.now()); err != nil {
			return fmt.Errorf("%w: mark published: %v", ErrRelay, err)
		}

		processed = len(records)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if processed > 0 {
		r.logger.Info("Outbox relay: published %d events", processed)
	}
	return processed, nil
}
