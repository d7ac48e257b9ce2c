package update_working_hours

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours/models"
)

type WorkingHoursService interface {
	Replace(ctx context.Context, kind, providerID string, req *models.ReplaceWorkingHoursRequest) (*models.WorkingHoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
