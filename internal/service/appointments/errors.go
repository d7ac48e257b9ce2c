package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment not found", domain.ErrNotFound)

	// ErrPastDate возвращается, когда дата и время записи не в будущем
	ErrPastDate = fmt.Errorf("%w: scheduled date and time must be in the future", domain.ErrBadRequest)

	// ErrSlotConflict возвращается, когда слот провайдера уже занят активной записью
	ErrSlotConflict = fmt.Errorf("%w: time slot is already booked", domain.ErrBadRequest)

	// ErrNotCancellable возвращается при отмене записи в терминальном статусе
	ErrNotCancellable = fmt.Errorf("%w: appointment cannot be cancelled", domain.ErrBadRequest)

	// ErrNotEditable возвращается при изменении записи не в статусе PENDING
	ErrNotEditable = fmt.Errorf("%w: appointment can only be edited while pending", domain.ErrBadRequest)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrConcurrentUpdate возвращается, если запись изменили параллельно
	ErrConcurrentUpdate = errors.New("appointment was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
