package appointment

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

const (
	tableName = "appointments"

	// uniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
	uniqueViolation = "23505"
)

var columns = []string{
	"id",
	"client_id",
	"provider_kind",
	"provider_id",
	"company_id",
	"service_id",
	"scheduled_date",
	"scheduled_time",
	"status",
	"location",
	"client_notes",
	"provider_notes",
	"created_at",
	"updated_at",
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.Provider.Kind,
		&a.Provider.ID,
		&a.Provider.CompanyID,
		&a.ServiceID,
		&a.ScheduledDate,
		&a.ScheduledTime,
		&a.Status,
		&a.Location,
		&a.ClientNotes,
		&a.ProviderNotes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

// dateArg передает календарную дату без времени, чтобы сравнение с DATE не зависело от часового пояса
func dateArg(t time.Time) string {
	return t.Format(domain.DateFormat)
}

func statusArgs(statuses []domain.AppointmentStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// filterWhere условия выборки по фильтру. Все условия объединяются через AND.
func filterWhere(f domain.AppointmentFilter) squirrel.And {
	where := squirrel.And{}

	if f.ClientID != nil {
		where = append(where, squirrel.Eq{"client_id": *f.ClientID})
	}
	if f.Provider != nil {
		where = append(where, squirrel.Eq{
			"provider_kind": string(f.Provider.Kind),
			"provider_id":   f.Provider.ID,
		})
	}
	if f.CompanyID != nil {
		where = append(where, squirrel.Eq{"company_id": *f.CompanyID})
	}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"status": string(*f.Status)})
	}
	if f.DateFrom != nil {
		where = append(where, squirrel.GtOrEq{"scheduled_date": dateArg(*f.DateFrom)})
	}
	if f.DateTo != nil {
		where = append(where, squirrel.LtOrEq{"scheduled_date": dateArg(*f.DateTo)})
	}

	return where
}

func buildFindQuery(f domain.AppointmentFilter) (string, []interface{}, error) {
	b := withFilter(psqlbuilder.Select(columns...).From(tableName), f).
		OrderBy("scheduled_date ASC", "scheduled_time ASC", "id ASC")

	if f.Skip > 0 {
		b = b.Offset(uint64(f.Skip))
	}
	if f.Take > 0 {
		b = b.Limit(uint64(f.Take))
	}

	return b.ToSql()
}

func buildCountQuery(f domain.AppointmentFilter) (string, []interface{}, error) {
	return withFilter(psqlbuilder.Select("COUNT(*)").From(tableName), f).ToSql()
}

func withFilter(b squirrel.SelectBuilder, f domain.AppointmentFilter) squirrel.SelectBuilder {
	if where := filterWhere(f); len(where) > 0 {
		b = b.Where(where)
	}
	return b
}

// buildConflictQuery SELECT EXISTS по слоту: тот же провайдер, дата в [DayStart, DayEnd), то же время, статус из списка
func buildConflictQuery(q domain.ConflictQuery) (string, []interface{}, error) {
	where := squirrel.And{
		squirrel.Eq{
			"provider_kind":  string(q.Provider.Kind),
			"provider_id":    q.Provider.ID,
			"scheduled_time": q.Time.String(),
			"status":         statusArgs(q.Statuses),
		},
		squirrel.GtOrEq{"scheduled_date": dateArg(q.DayStart)},
		squirrel.Lt{"scheduled_date": dateArg(q.DayEnd)},
	}
	if q.ExcludeID != nil {
		where = append(where, squirrel.NotEq{"id": *q.ExcludeID})
	}

	return psqlbuilder.Select("1").
		From(tableName).
		Where(where).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
}

func buildPatchQuery(id string, expected domain.AppointmentStatus, patch domain.AppointmentPatch) (string, []interface{}, error) {
	set := map[string]interface{}{
		"updated_at": patch.UpdatedAt,
	}
	if patch.ScheduledDate != nil {
		set["scheduled_date"] = dateArg(*patch.ScheduledDate)
	}
	if patch.ScheduledTime != nil {
		set["scheduled_time"] = patch.ScheduledTime.String()
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.ClientNotes != nil {
		set["client_notes"] = *patch.ClientNotes
	}

	return psqlbuilder.Update(tableName).
		SetMap(set).
		Where(squirrel.Eq{"id": id, "status": string(expected)}).
		Suffix(returning()).
		ToSql()
}

func buildStatusQuery(id string, from, to domain.AppointmentStatus, notes *string, updatedAt time.Time) (string, []interface{}, error) {
	b := psqlbuilder.Update(tableName).
		Set("status", string(to)).
		Set("updated_at", updatedAt)
	if notes != nil {
		b = b.Set("provider_notes", *notes)
	}

	return b.Where(squirrel.Eq{"id": id, "status": string(from)}).
		Suffix(returning()).
		ToSql()
}

func returning() string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
