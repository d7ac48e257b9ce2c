package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	workingHoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/lock"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/events"
	"github.com/m04kA/SMC-SchedulingService/internal/lifecycle"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Результаты операций для метрик
const (
	resultSuccess  = "success"
	resultConflict = "conflict"
	resultRejected = "rejected"
	resultError    = "error"
)

// Config параметры сервиса
type Config struct {
	Location           *time.Location // часы, по которым читается "сейчас"
	HardDeleteOnCancel bool
	DefaultPageSize    int
	MaxPageSize        int
}

// Service сервис расписания: единая точка входа для записей
type Service struct {
	repo         AppointmentRepository
	workingHours WorkingHoursRepository
	detector     ConflictDetector
	calculator   SlotCalculator
	txManager    TransactionManager
	locker       SlotLocker
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	repo AppointmentRepository,
	workingHours WorkingHoursRepository,
	detector ConflictDetector,
	calculator SlotCalculator,
	txManager TransactionManager,
	locker SlotLocker,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = domain.DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = domain.MaxPageSize
	}

	return &Service{
		repo:         repo,
		workingHours: workingHours,
		detector:     detector,
		calculator:   calculator,
		txManager:    txManager,
		locker:       locker,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{Location: cfg.Location},
		logger:       logger,
		cfg:          cfg,
	}
}

// Create создает запись в статусе PENDING.
// Проверка конфликта и вставка выполняются под блокировкой слота в одной транзакции;
// окончательным сигналом конфликта служит уникальный индекс хранилища.
func (s *Service) Create(ctx context.Context, req *models.CreateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Create: client=%s, provider=%s:%s, date=%s, time=%s",
		req.ClientID, req.ProviderKind, req.ProviderID, req.ScheduledDate, req.ScheduledTime)

	draft, err := validateCreateRequest(req, s.cfg.Location)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		s.record("create", resultRejected)
		return nil, err
	}

	now := s.timeProvider.Now()
	if !s.isFuture(draft.ScheduledDate, draft.ScheduledTime, now) {
		s.logger.Warn("Create: %s %s is not in the future", draft.ScheduledDate.Format(domain.DateFormat), draft.ScheduledTime)
		s.record("create", resultRejected)
		return nil, ErrPastDate
	}

	draft.ID = uuid.NewString()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	var created *domain.Appointment
	err = s.locker.WithSlotLock(ctx, slotKey(draft.Provider, draft.ScheduledDate, draft.ScheduledTime), func(ctx context.Context) error {
		return s.txManager.Do(ctx, func(txCtx context.Context) error {
			taken, err := s.detector.HasConflict(txCtx, draft.Provider, draft.ScheduledDate, draft.ScheduledTime, nil)
			if err != nil {
				s.logger.Error("Create: conflict check failed: %v", err)
				return fmt.Errorf("%w: Create - conflict check: %v", ErrInternal, err)
			}
			if taken {
				return ErrSlotConflict
			}

			created, err = s.repo.Create(txCtx, draft)
			if err != nil {
				if errors.Is(err, appointmentRepo.ErrSlotTaken) {
					return ErrSlotConflict
				}
				s.logger.Error("Create: repository error: %v", err)
				return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
			}
			return s.enqueue(txCtx, "Create", events.EventCreated, created, "")
		})
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			err = ErrSlotConflict
		}
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Warn("Create: slot %s %s is taken for provider=%s",
				draft.ScheduledDate.Format(domain.DateFormat), draft.ScheduledTime, draft.Provider.Key())
			s.record("create", resultConflict)
			return nil, ErrSlotConflict
		}
		s.record("create", resultError)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("Create: slot lock error: %v", err)
		return nil, fmt.Errorf("%w: Create - slot lock: %v", ErrInternal, err)
	}

	s.record("create", resultSuccess)

	s.logger.Info("Create: successfully created appointment id=%s", created.ID)
	return models.FromDomainAppointment(created), nil
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	appt, err := s.load(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainAppointment(appt), nil
}

// Update применяет частичное обновление к записи.
// При смене даты или времени слот проверяется заново для провайдера самой записи.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Update: updating appointment id=%s", id)

	patch, err := validateUpdateRequest(req, s.cfg.Location)
	if err != nil {
		s.logger.Warn("Update: validation failed for id=%s: %v", id, err)
		return nil, err
	}

	existing, err := s.load(ctx, "Update", id)
	if err != nil {
		return nil, err
	}

	// дата, время и адрес меняются только в PENDING; заметки клиента - пока запись активна
	expected := existing.Status
	if patch.ChangesDetails() {
		if !lifecycle.CanBeEdited(existing.Status) {
			s.logger.Warn("Update: appointment id=%s cannot be edited, status=%s", id, existing.Status)
			return nil, ErrNotEditable
		}
		expected = domain.StatusPending
	} else if !existing.IsActive() {
		s.logger.Warn("Update: notes of appointment id=%s are frozen, status=%s", id, existing.Status)
		return nil, ErrNotEditable
	}

	now := s.timeProvider.Now()
	patch.UpdatedAt = now
	merged := patch.ApplyTo(existing)

	if patch.ChangesSlot() && !s.isFuture(merged.ScheduledDate, merged.ScheduledTime, now) {
		s.logger.Warn("Update: new slot for id=%s is not in the future", id)
		return nil, ErrPastDate
	}

	write := func(ctx context.Context) error {
		return s.txManager.Do(ctx, func(txCtx context.Context) error {
			if patch.ChangesSlot() {
				taken, err := s.detector.HasConflict(txCtx, existing.Provider, merged.ScheduledDate, merged.ScheduledTime, &existing.ID)
				if err != nil {
					s.logger.Error("Update: conflict check failed for id=%s: %v", id, err)
					return fmt.Errorf("%w: Update - conflict check: %v", ErrInternal, err)
				}
				if taken {
					return ErrSlotConflict
				}
			}

			updated, err := s.repo.Update(txCtx, id, expected, patch)
			if err != nil {
				return s.mapWriteError("Update", id, err)
			}
			merged = updated
			return s.enqueue(txCtx, "Update", events.EventUpdated, updated, "")
		})
	}

	if patch.ChangesSlot() {
		err = s.locker.WithSlotLock(ctx, slotKey(existing.Provider, merged.ScheduledDate, merged.ScheduledTime), write)
		if errors.Is(err, lock.ErrLockNotAcquired) {
			err = ErrSlotConflict
		}
	} else {
		err = write(ctx)
	}
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			s.logger.Warn("Update: slot %s %s is taken for provider=%s",
				merged.ScheduledDate.Format(domain.DateFormat), merged.ScheduledTime, existing.Provider.Key())
			s.record("update", resultConflict)
		} else {
			s.record("update", resultError)
		}
		return nil, s.wrapUnexpected("Update", err)
	}

	s.record("update", resultSuccess)

	s.logger.Info("Update: successfully updated appointment id=%s", id)
	return models.FromDomainAppointment(merged), nil
}

// Delete отменяет запись: переводит в CANCELLED или удаляет физически, если так настроено
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: cancelling appointment id=%s", id)

	existing, err := s.load(ctx, "Delete", id)
	if err != nil {
		return err
	}

	if !lifecycle.CanBeCancelled(existing.Status) {
		s.logger.Warn("Delete: appointment id=%s cannot be cancelled, status=%s", id, existing.Status)
		return ErrNotCancellable
	}

	now := s.timeProvider.Now()
	cancelled, err := lifecycle.Transition(existing, domain.StatusCancelled, nil, now)
	if err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		if s.cfg.HardDeleteOnCancel {
			err = s.repo.Delete(txCtx, id)
		} else {
			cancelled, err = s.repo.UpdateStatus(txCtx, id, existing.Status, domain.StatusCancelled, nil, now)
		}
		if err != nil {
			return s.mapWriteError("Delete", id, err)
		}
		return s.enqueue(txCtx, "Delete", events.EventCancelled, cancelled, existing.Status)
	})
	if err != nil {
		s.record("cancel", resultError)
		return err
	}

	s.record("cancel", resultSuccess)

	s.logger.Info("Delete: successfully cancelled appointment id=%s (hardDelete=%t)", id, s.cfg.HardDeleteOnCancel)
	return nil
}

// UpdateStatus переводит запись в новый статус по таблице переходов
func (s *Service) UpdateStatus(ctx context.Context, id string, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s", id, req.Status)

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for id=%s", req.Status, id)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validateNotes(req.Notes); err != nil {
		return nil, err
	}

	existing, err := s.load(ctx, "UpdateStatus", id)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	next, err := lifecycle.Transition(existing, target, req.Notes, now)
	if err != nil {
		s.logger.Warn("UpdateStatus: %v for id=%s", err, id)
		s.record("transition", resultRejected)
		return nil, err
	}

	eventType := events.EventStatusChanged
	if next.Status == domain.StatusCancelled {
		eventType = events.EventCancelled
	}

	var updated *domain.Appointment
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.repo.UpdateStatus(txCtx, id, existing.Status, next.Status, next.ProviderNotes, now)
		if err != nil {
			return s.mapWriteError("UpdateStatus", id, err)
		}
		return s.enqueue(txCtx, "UpdateStatus", eventType, updated, existing.Status)
	})
	if err != nil {
		s.record("transition", resultError)
		return nil, err
	}

	s.record("transition", resultSuccess)

	s.logger.Info("UpdateStatus: appointment id=%s moved %s -> %s", id, existing.Status, updated.Status)
	return models.FromDomainAppointment(updated), nil
}

// ListByClient записи клиента
func (s *Service) ListByClient(ctx context.Context, clientID string, req *models.ListRequest) (*models.AppointmentPageResponse, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}
	return s.list(ctx, "ListByClient", req, func(f *domain.AppointmentFilter) {
		f.ClientID = &clientID
	})
}

// ListByProvider записи провайдера
func (s *Service) ListByProvider(ctx context.Context, kind, providerID string, req *models.ListRequest) (*models.AppointmentPageResponse, error) {
	provider, err := parseProviderRef(kind, providerID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, "ListByProvider", req, func(f *domain.AppointmentFilter) {
		f.Provider = &provider
	})
}

// ListByCompany записи сотрудников компании
func (s *Service) ListByCompany(ctx context.Context, companyID string, req *models.ListRequest) (*models.AppointmentPageResponse, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: companyId is required", ErrInvalidInput)
	}
	return s.list(ctx, "ListByCompany", req, func(f *domain.AppointmentFilter) {
		f.CompanyID = &companyID
	})
}

func (s *Service) list(ctx context.Context, op string, req *models.ListRequest, owner func(*domain.AppointmentFilter)) (*models.AppointmentPageResponse, error) {
	filter, err := s.buildListFilter(req)
	if err != nil {
		s.logger.Warn("%s: invalid filter: %v", op, err)
		return nil, err
	}
	owner(&filter)

	data, total, err := s.repo.FindMany(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: fetched %d of %d appointments (skip=%d, take=%d)", op, len(data), total, filter.Skip, filter.Take)
	return models.FromDomainPage(domain.NewPage(data, total, filter.Skip, filter.Take)), nil
}

// AvailableTimeSlots свободные слоты провайдера на дату.
// Без сохраненного расписания провайдер считается работающим весь день сетки.
func (s *Service) AvailableTimeSlots(ctx context.Context, kind, providerID, date string) (*models.AvailableSlotsResponse, error) {
	provider, err := parseProviderRef(kind, providerID)
	if err != nil {
		return nil, err
	}
	day, err := parseDate("date", date, s.cfg.Location)
	if err != nil {
		return nil, err
	}

	schedule, err := s.workingHours.GetByProvider(ctx, provider)
	if err != nil && !errors.Is(err, workingHoursRepo.ErrWorkingHoursNotFound) {
		s.logger.Error("AvailableTimeSlots: failed to get working hours for provider=%s: %v", provider.Key(), err)
		return nil, fmt.Errorf("%w: AvailableTimeSlots - working hours: %v", ErrInternal, err)
	}

	var slots []types.TimeString
	if schedule == nil || schedule.IsEmpty() {
		slots, err = s.calculator.AvailableSlots(ctx, provider, day, nil)
	} else {
		slots, err = s.calculator.AvailableSlots(ctx, provider, day, schedule)
	}
	if err != nil {
		s.logger.Error("AvailableTimeSlots: failed for provider=%s: %v", provider.Key(), err)
		return nil, fmt.Errorf("%w: AvailableTimeSlots - %v", ErrInternal, err)
	}

	s.logger.Info("AvailableTimeSlots: provider=%s date=%s, %d slots", provider.Key(), date, len(slots))
	return models.FromSlots(provider, day, slots), nil
}

// Stats счетчики по статусам и производные проценты
func (s *Service) Stats(ctx context.Context, req *models.StatsRequest) (*models.StatsResponse, error) {
	var filter domain.AppointmentFilter
	if err := s.applyCommonFilters(&filter, nil, req.DateFrom, req.DateTo); err != nil {
		return nil, err
	}
	if req.ClientID != nil && *req.ClientID != "" {
		filter.ClientID = req.ClientID
	}
	if req.CompanyID != nil && *req.CompanyID != "" {
		filter.CompanyID = req.CompanyID
	}
	if req.ProviderKind != nil || req.ProviderID != nil {
		provider, err := parseProviderRef(deref(req.ProviderKind), deref(req.ProviderID))
		if err != nil {
			return nil, err
		}
		filter.Provider = &provider
	}

	counts := make(map[domain.AppointmentStatus]int, len(domain.AllStatuses))
	var total int

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if total, err = s.repo.CountByFilter(txCtx, filter); err != nil {
			return err
		}
		for _, status := range domain.AllStatuses {
			f := filter
			st := status
			f.Status = &st
			n, err := s.repo.CountByFilter(txCtx, f)
			if err != nil {
				return err
			}
			counts[status] = n
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}

	stats := domain.NewStats(total,
		counts[domain.StatusPending],
		counts[domain.StatusAccepted],
		counts[domain.StatusCompleted],
		counts[domain.StatusCancelled],
		counts[domain.StatusRejected],
	)
	return models.FromDomainStats(stats), nil
}

// Вспомогательные методы

func (s *Service) load(ctx context.Context, op, id string) (*domain.Appointment, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%s not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

func (s *Service) mapWriteError(op, id string, err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment id=%s disappeared", op, id)
		return ErrAppointmentNotFound
	case errors.Is(err, appointmentRepo.ErrStatusMismatch):
		s.logger.Warn("%s: appointment id=%s changed concurrently", op, id)
		return ErrConcurrentUpdate
	case errors.Is(err, appointmentRepo.ErrSlotTaken):
		return ErrSlotConflict
	default:
		s.logger.Error("%s: repository error for id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// wrapUnexpected пропускает ошибки сервиса как есть, остальные оборачивает в ErrInternal
func (s *Service) wrapUnexpected(op string, err error) error {
	for _, known := range []error{ErrSlotConflict, ErrAppointmentNotFound, ErrConcurrentUpdate, ErrInternal} {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error("%s: unexpected error: %v", op, err)
	return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
}

// isFuture true, если дата+время строго позже now (по часам сервиса)
func (s *Service) isFuture(date time.Time, at types.TimeString, now time.Time) bool {
	y, m, d := date.Date()
	scheduled := at.On(time.Date(y, m, d, 0, 0, 0, 0, s.cfg.Location))
	return scheduled.After(now)
}

// enqueue сохраняет событие в транзакции записи; ошибка откатывает изменение
func (s *Service) enqueue(ctx context.Context, op string, t events.EventType, appt *domain.Appointment, previous domain.AppointmentStatus) error {
	event := events.NewAppointmentEvent(t, appt, previous, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("%s: failed to enqueue %s for id=%s: %v", op, t, appt.ID, err)
		return fmt.Errorf("%w: %s - enqueue event: %v", ErrInternal, op, err)
	}
	return nil
}

func (s *Service) record(op, result string) {
	if s.metrics != nil {
		s.metrics.RecordAppointmentOperation(op, result)
	}
}

func slotKey(p domain.Provider, date time.Time, at types.TimeString) string {
	return fmt.Sprintf("%s:%s:%s", p.Key(), date.Format(domain.DateFormat), at)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
