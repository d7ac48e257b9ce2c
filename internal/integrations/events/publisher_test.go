package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            "a-1",
		ClientID:      "c-1",
		Provider:      domain.NewEmployee("e-1", "co-1"),
		ServiceID:     "s-1",
		ScheduledDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ScheduledTime: "14:00",
		Status:        domain.StatusAccepted,
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "appointments")
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	event := NewAppointmentEvent(EventStatusChanged, testAppointment(), domain.StatusPending, at)
	require.NoError(t, p.Publish(context.Background(), event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "a-1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.Equal(t, []kafka.Header{
		{Key: "event_id", Value: []byte(event.EventID)},
		{Key: "event_type", Value: []byte("appointment.status_changed")},
	}, msg.Headers)

	var decoded AppointmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "ACCEPTED", decoded.Status)
	assert.Equal(t, "PENDING", decoded.PreviousStatus)
	assert.Equal(t, "2025-03-10", decoded.ScheduledDate)
	assert.Equal(t, "co-1", *decoded.CompanyID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	p := newKafkaPublisher(&fakeWriter{err: errors.New("leader not available")}, "appointments")

	err := p.Publish(context.Background(), NewAppointmentEvent(EventCreated, testAppointment(), "", time.Now()))
	assert.ErrorIs(t, err, ErrPublish)
}

func TestKafkaPublisher_PublishBatch(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "appointments")
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	batch := []AppointmentEvent{
		NewAppointmentEvent(EventCreated, testAppointment(), "", at),
		NewAppointmentEvent(EventCancelled, testAppointment(), domain.StatusAccepted, at),
	}
	require.NoError(t, p.PublishBatch(context.Background(), batch))
	require.Len(t, w.msgs, 2)
	assert.Equal(t, []byte(batch[1].EventID), w.msgs[1].Headers[0].Value)

	require.NoError(t, p.PublishBatch(context.Background(), nil))
	assert.Len(t, w.msgs, 2)
}

func TestNewKafkaPublisher_WriterSettings(t *testing.T) {
	p, err := NewKafkaPublisher(Config{Brokers: "k1:9092", Topic: "appointments"})
	require.NoError(t, err)

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, DefaultBatchTimeout, w.BatchTimeout)
	assert.Equal(t, 5*time.Second, w.WriteTimeout)
	assert.Equal(t, "appointments", w.Topic)
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(Config{Brokers: " , ", Topic: "appointments"})
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, SplitBrokers(" k1:9092,,k2:9092 "))
	assert.Empty(t, SplitBrokers(""))
}
