package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись.
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса активного слота возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(columns...).
		Values(
			a.ID,
			a.ClientID,
			string(a.Provider.Kind),
			a.Provider.ID,
			a.Provider.CompanyID,
			a.ServiceID,
			dateArg(a.ScheduledDate),
			a.ScheduledTime.String(),
			string(a.Status),
			a.Location,
			a.ClientNotes,
			a.ProviderNotes,
			a.CreatedAt,
			a.UpdatedAt,
		).
		Suffix(returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// FindMany возвращает страницу записей по фильтру и общее число подходящих записей
func (r *Repository) FindMany(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, int, error) {
	total, err := r.CountByFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*domain.Appointment{}, 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildFindQuery(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: FindMany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: FindMany - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: FindMany - scan appointment: %v", ErrScanRow, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: FindMany - rows iteration: %v", ErrScanRow, err)
	}

	return result, total, nil
}

// CountByFilter считает записи по фильтру (пагинация не учитывается)
func (r *Repository) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildCountQuery(filter)
	if err != nil {
		return 0, fmt.Errorf("%w: CountByFilter - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByFilter - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// HasConflict проверяет, занят ли слот записью с одним из указанных статусов
func (r *Repository) HasConflict(ctx context.Context, q domain.ConflictQuery) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildConflictQuery(q)
	if err != nil {
		return false, fmt.Errorf("%w: HasConflict - build query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasConflict - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// Update применяет патч, только если запись все еще в статусе expected
func (r *Repository) Update(ctx context.Context, id string, expected domain.AppointmentStatus, patch domain.AppointmentPatch) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildPatchQuery(id, expected, patch)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingReason(ctx, id)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// UpdateStatus меняет статус from -> to (compare-and-set по текущему статусу).
// notes == nil оставляет заметки провайдера без изменений.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, notes *string, updatedAt time.Time) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildStatusQuery(id, from, to, notes, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.missingReason(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	return updated, nil
}

// Delete физически удаляет активную запись
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id, "status": statusArgs(domain.ActiveStatuses)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return r.missingReason(ctx, id)
	}

	return nil
}

// missingReason различает отсутствие записи и несовпадение статуса
func (r *Repository) missingReason(ctx context.Context, id string) error {
	_, err := r.GetByID(ctx, id)
	switch {
	case err == nil:
		return ErrStatusMismatch
	case errors.Is(err, ErrAppointmentNotFound):
		return ErrAppointmentNotFound
	default:
		return err
	}
}
