package get_working_hours

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours/models"
)

type WorkingHoursService interface {
	Get(ctx context.Context, kind, providerID string) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
