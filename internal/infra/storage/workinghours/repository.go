package workinghours

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const tableName = "provider_working_hours"

// Repository репозиторий рабочего времени провайдеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория рабочего времени
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProvider возвращает недельное расписание провайдера
func (r *Repository) GetByProvider(ctx context.Context, provider domain.Provider) (*domain.WeeklySchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("weekday", "start_time", "end_time").
		From(tableName).
		Where(providerWhere(provider)).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedule := domain.NewWeeklySchedule(provider)
	found := false
	for rows.Next() {
		var weekday int
		var start, end types.TimeString
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, fmt.Errorf("%w: GetByProvider - scan range: %v", ErrScanRow, err)
		}
		schedule.Add(time.Weekday(weekday), domain.TimeRange{Start: start, End: end})
		found = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - rows iteration: %v", ErrScanRow, err)
	}

	if !found {
		return nil, ErrWorkingHoursNotFound
	}

	return schedule, nil
}

// Replace заменяет расписание провайдера целиком.
// Вызывать внутри транзакции, чтобы удаление и вставка были атомарны.
func (r *Repository) Replace(ctx context.Context, schedule *domain.WeeklySchedule) error {
	if err := r.DeleteByProvider(ctx, schedule.Provider); err != nil {
		return err
	}
	if schedule.IsEmpty() {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildInsertQuery(schedule)
	if err != nil {
		return fmt.Errorf("%w: Replace - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Replace - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteByProvider удаляет расписание провайдера
func (r *Repository) DeleteByProvider(ctx context.Context, provider domain.Provider) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(providerWhere(provider)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByProvider - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByProvider - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

func providerWhere(p domain.Provider) squirrel.Eq {
	return squirrel.Eq{
		"provider_kind": string(p.Kind),
		"provider_id":   p.ID,
	}
}

// buildInsertQuery одна многострочная вставка; дни недели по порядку Sunday..Saturday
func buildInsertQuery(schedule *domain.WeeklySchedule) (string, []interface{}, error) {
	b := psqlbuilder.Insert(tableName).
		Columns("provider_kind", "provider_id", "weekday", "start_time", "end_time")

	for day := time.Sunday; day <= time.Saturday; day++ {
		for _, rng := range schedule.Days[day] {
			b = b.Values(string(schedule.Provider.Kind), schedule.Provider.ID, int(day), rng.Start.String(), rng.End.String())
		}
	}

	return b.ToSql()
}
