package conflict

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Store проверка занятости слота в хранилище записей
type Store interface {
	HasConflict(ctx context.Context, q domain.ConflictQuery) (bool, error)
}
