package delete_working_hours

import "context"

type WorkingHoursService interface {
	Delete(ctx context.Context, kind, providerID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
