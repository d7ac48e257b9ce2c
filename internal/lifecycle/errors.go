package lifecycle

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ErrInvalidTransition возвращается, когда переход статуса запрещен таблицей
var ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", domain.ErrBadRequest)

// InvalidTransitionError указывает запрещенную пару статусов
type InvalidTransitionError struct {
	From domain.AppointmentStatus
	To   domain.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// AsInvalidTransition извлекает InvalidTransitionError из цепочки ошибок
func AsInvalidTransition(err error) (*InvalidTransitionError, bool) {
	var target *InvalidTransitionError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
