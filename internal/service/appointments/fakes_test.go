package appointments

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	workingHoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
)

// memStore хранилище записей в памяти. Уникальность активного слота проверяется под мьютексом,
// как это делает частичный уникальный индекс в PostgreSQL.
type memStore struct {
	mu          sync.Mutex
	items       map[string]*domain.Appointment
	beforeWrite func(id string)
	failWith    error
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*domain.Appointment)}
}

func sameSlot(a, b *domain.Appointment) bool {
	return a.Provider.Kind == b.Provider.Kind &&
		a.Provider.ID == b.Provider.ID &&
		a.ScheduledDate.Format(domain.DateFormat) == b.ScheduledDate.Format(domain.DateFormat) &&
		a.ScheduledTime == b.ScheduledTime
}

func (s *memStore) slotTakenLocked(candidate *domain.Appointment) bool {
	if !candidate.IsActive() {
		return false
	}
	for id, other := range s.items {
		if id != candidate.ID && other.IsActive() && sameSlot(candidate, other) {
			return true
		}
	}
	return false
}

func (s *memStore) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return nil, s.failWith
	}
	if s.slotTakenLocked(a) {
		return nil, appointmentRepo.ErrSlotTaken
	}
	s.items[a.ID] = a.Clone()
	return a.Clone(), nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a.Clone(), nil
}

func matches(a *domain.Appointment, f domain.AppointmentFilter) bool {
	if f.ClientID != nil && a.ClientID != *f.ClientID {
		return false
	}
	if f.Provider != nil && (a.Provider.Kind != f.Provider.Kind || a.Provider.ID != f.Provider.ID) {
		return false
	}
	if f.CompanyID != nil && (a.Provider.CompanyID == nil || *a.Provider.CompanyID != *f.CompanyID) {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	date := a.ScheduledDate.Format(domain.DateFormat)
	if f.DateFrom != nil && date < f.DateFrom.Format(domain.DateFormat) {
		return false
	}
	if f.DateTo != nil && date > f.DateTo.Format(domain.DateFormat) {
		return false
	}
	return true
}

func (s *memStore) FindMany(_ context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*domain.Appointment
	for _, a := range s.items {
		if matches(a, f) {
			all = append(all, a.Clone())
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].ScheduledDate.Equal(all[j].ScheduledDate) {
			return all[i].ScheduledDate.Before(all[j].ScheduledDate)
		}
		if all[i].ScheduledTime != all[j].ScheduledTime {
			return all[i].ScheduledTime < all[j].ScheduledTime
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	start := f.Skip
	if start > total {
		start = total
	}
	end := total
	if f.Take > 0 && start+f.Take < total {
		end = start + f.Take
	}
	return all[start:end], total, nil
}

func (s *memStore) CountByFilter(ctx context.Context, f domain.AppointmentFilter) (int, error) {
	f.Skip, f.Take = 0, 0
	_, total, err := s.FindMany(ctx, f)
	return total, err
}

func (s *memStore) HasConflict(_ context.Context, q domain.ConflictQuery) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return false, s.failWith
	}
	for id, a := range s.items {
		if q.ExcludeID != nil && id == *q.ExcludeID {
			continue
		}
		if a.Provider.Kind != q.Provider.Kind || a.Provider.ID != q.Provider.ID || a.ScheduledTime != q.Time {
			continue
		}
		if a.ScheduledDate.Before(q.DayStart) || !a.ScheduledDate.Before(q.DayEnd) {
			continue
		}
		for _, st := range q.Statuses {
			if a.Status == st {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *memStore) Update(_ context.Context, id string, expected domain.AppointmentStatus, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if a.Status != expected {
		return nil, appointmentRepo.ErrStatusMismatch
	}
	merged := patch.ApplyTo(a)
	if s.slotTakenLocked(merged) {
		return nil, appointmentRepo.ErrSlotTaken
	}
	s.items[id] = merged
	return merged.Clone(), nil
}

func (s *memStore) UpdateStatus(_ context.Context, id string, from, to domain.AppointmentStatus, notes *string, updatedAt time.Time) (*domain.Appointment, error) {
	if s.beforeWrite != nil {
		s.beforeWrite(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if a.Status != from {
		return nil, appointmentRepo.ErrStatusMismatch
	}
	a.Status = to
	a.UpdatedAt = updatedAt
	if notes != nil {
		n := *notes
		a.ProviderNotes = &n
	}
	return a.Clone(), nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if !a.IsActive() {
		return appointmentRepo.ErrStatusMismatch
	}
	delete(s.items, id)
	return nil
}

func (s *memStore) setStatus(id string, status domain.AppointmentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id].Status = status
}

// memWorkingHours расписания провайдеров в памяти
type memWorkingHours struct {
	schedules map[string]*domain.WeeklySchedule
	err       error
}

func (m *memWorkingHours) GetByProvider(_ context.Context, p domain.Provider) (*domain.WeeklySchedule, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.schedules[p.Key()]
	if !ok {
		return nil, workingHoursRepo.ErrWorkingHoursNotFound
	}
	return s, nil
}

// memTx транзакция над memStore: транзакции выполняются по одной,
// при ошибке состояние хранилища откатывается к снимку
type memTx struct {
	mu    sync.Mutex
	store *memStore
}

func (t *memTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snapshot)
		return err
	}
	return nil
}

func (t *memTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *memStore) snapshot() map[string]*domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*domain.Appointment, len(s.items))
	for id, a := range s.items {
		out[id] = a.Clone()
	}
	return out
}

func (s *memStore) restore(items map[string]*domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AppointmentEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *recordingMetrics) RecordAppointmentOperation(op, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[op+"/"+result]++
}

func (m *recordingMetrics) get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var errStoreDown = errors.New("connection refused")
