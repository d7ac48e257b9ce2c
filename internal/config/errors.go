package config

import "errors"

var (
	ErrLoadConfig    = errors.New("config: failed to load")
	ErrInvalidConfig = errors.New("config: invalid")
)
