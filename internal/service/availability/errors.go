package availability

import "errors"

var (
	// ErrInvalidGrid возвращается при некорректных параметрах сетки
	ErrInvalidGrid = errors.New("availability: invalid slot grid")

	// ErrInternal возвращается при ошибке проверки конфликтов
	ErrInternal = errors.New("availability: internal error")
)
