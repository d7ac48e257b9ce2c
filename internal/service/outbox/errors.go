package outbox

import "errors"

var (
	// ErrEnqueue возвращается, если событие не удалось сохранить в outbox
	ErrEnqueue = errors.New("outbox: enqueue failed")

	// ErrRelay возвращается при ошибке пересылки пачки событий
	ErrRelay = errors.New("outbox: relay failed")
)
