package lifecycle

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// transitions таблица разрешенных переходов: статус -> допустимые целевые статусы.
// Терминальные статусы переходов не имеют.
var transitions = map[domain.AppointmentStatus][]domain.AppointmentStatus{
	domain.StatusPending:   {domain.StatusAccepted, domain.StatusCancelled, domain.StatusRejected},
	domain.StatusAccepted:  {domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusCompleted: {},
	domain.StatusCancelled: {},
	domain.StatusRejected:  {},
}

// AllowedTargets возвращает допустимые целевые статусы для from
func AllowedTargets(from domain.AppointmentStatus) []domain.AppointmentStatus {
	targets := transitions[from]
	out := make([]domain.AppointmentStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition проверяет, разрешен ли переход from -> to
func CanTransition(from, to domain.AppointmentStatus) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// IsTerminal true, если из статуса нет переходов
func IsTerminal(status domain.AppointmentStatus) bool {
	return len(transitions[status]) == 0
}

// CanBeEdited дата, время и адрес меняются только пока запись ожидает подтверждения
func CanBeEdited(status domain.AppointmentStatus) bool {
	return status == domain.StatusPending
}

// CanBeCancelled отмена возможна, пока таблица допускает переход в CANCELLED
func CanBeCancelled(status domain.AppointmentStatus) bool {
	return CanTransition(status, domain.StatusCancelled)
}

// Transition возвращает новую запись с целевым статусом.
// Исходная запись не изменяется. Непустые notes записываются в ProviderNotes.
func Transition(appt *domain.Appointment, target domain.AppointmentStatus, notes *string, now time.Time) (*domain.Appointment, error) {
	if !CanTransition(appt.Status, target) {
		return nil, &InvalidTransitionError{From: appt.Status, To: target}
	}

	next := appt.Clone()
	next.Status = target
	next.UpdatedAt = now
	if notes != nil && *notes != "" {
		merged := *notes
		next.ProviderNotes = &merged
	}

	return next, nil
}
