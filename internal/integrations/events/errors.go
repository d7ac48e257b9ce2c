package events

import "errors"

var (
	// ErrNoBrokers возвращается, если не указан ни один брокер
	ErrNoBrokers = errors.New("events: kafka brokers not configured")

	// ErrPublish возвращается при ошибке отправки события
	ErrPublish = errors.New("events: publish failed")
)
