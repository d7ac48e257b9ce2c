package appointment

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func TestBuildConflictQuery(t *testing.T) {
	q := domain.ConflictQuery{
		Provider:  domain.NewEmployee("e-1", "c-1"),
		DayStart:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DayEnd:    time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		Time:      "14:00",
		Statuses:  domain.ActiveStatuses,
		ExcludeID: ptr.Ptr("a-1"),
	}

	query, args, err := buildConflictQuery(q)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "SELECT EXISTS ( SELECT 1 FROM appointments WHERE"), query)
	assert.True(t, strings.HasSuffix(query, ")"), query)
	assert.Contains(t, query, "provider_id = $")
	assert.Contains(t, query, "provider_kind = $")
	assert.Contains(t, query, "scheduled_time = $")
	assert.Contains(t, query, "status IN ($")
	assert.Contains(t, query, "scheduled_date >= $")
	assert.Contains(t, query, "scheduled_date < $")
	assert.Contains(t, query, "id <> $")
	assert.NotContains(t, query, "?")

	assert.Contains(t, args, "2025-03-10")
	assert.Contains(t, args, "2025-03-11")
	assert.Contains(t, args, "14:00")
	assert.Contains(t, args, "e-1")
	assert.Contains(t, args, "employee")
	assert.Contains(t, args, "PENDING")
	assert.Contains(t, args, "ACCEPTED")
	assert.Contains(t, args, "a-1")
	assert.Len(t, args, 8)
}

func TestBuildConflictQuery_NoExclude(t *testing.T) {
	query, args, err := buildConflictQuery(domain.ConflictQuery{
		Provider: domain.NewProfessional("P1"),
		DayStart: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DayEnd:   time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		Time:     types.TimeString("09:30"),
		Statuses: domain.ActiveStatuses,
	})
	require.NoError(t, err)
	assert.NotContains(t, query, "id <>")
	assert.Len(t, args, 7)
}

func TestBuildFindQuery(t *testing.T) {
	status := domain.StatusAccepted
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	query, args, err := buildFindQuery(domain.AppointmentFilter{
		CompanyID: ptr.Ptr("c-1"),
		Status:    &status,
		DateFrom:  &from,
		DateTo:    &to,
		Skip:      20,
		Take:      10,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "FROM appointments WHERE")
	assert.Contains(t, query, "company_id = $1")
	assert.Contains(t, query, "status = $2")
	assert.Contains(t, query, "scheduled_date >= $3")
	assert.Contains(t, query, "scheduled_date <= $4")
	assert.Contains(t, query, "ORDER BY scheduled_date ASC, scheduled_time ASC, id ASC")
	assert.Contains(t, query, "LIMIT 10")
	assert.Contains(t, query, "OFFSET 20")
	assert.Equal(t, []interface{}{"c-1", "ACCEPTED", "2025-03-01", "2025-03-31"}, args)
}

func TestBuildFindQuery_NoPagination(t *testing.T) {
	query, args, err := buildFindQuery(domain.AppointmentFilter{ClientID: ptr.Ptr("cl-1")})
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
	assert.NotContains(t, query, "OFFSET")
	assert.Equal(t, []interface{}{"cl-1"}, args)
}

func TestBuildCountQuery_Provider(t *testing.T) {
	provider := domain.NewProfessional("P1")
	query, args, err := buildCountQuery(domain.AppointmentFilter{Provider: &provider, Take: 10, Skip: 10})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "SELECT COUNT(*) FROM appointments WHERE"), query)
	assert.NotContains(t, query, "LIMIT")
	assert.ElementsMatch(t, []interface{}{"professional", "P1"}, args)
}

func TestBuildCountQuery_EmptyFilter(t *testing.T) {
	query, args, err := buildCountQuery(domain.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM appointments", query)
	assert.Empty(t, args)
}

func TestBuildStatusQuery(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	query, args, err := buildStatusQuery("a-1", domain.StatusPending, domain.StatusAccepted, ptr.Ptr("ok"), at)
	require.NoError(t, err)
	assert.Contains(t, query, "UPDATE appointments SET status = $1, updated_at = $2, provider_notes = $3")
	assert.Contains(t, query, "RETURNING id, client_id")
	assert.Equal(t, "ACCEPTED", args[0])
	assert.Equal(t, at, args[1])
	assert.Equal(t, "ok", args[2])
	assert.ElementsMatch(t, []interface{}{"a-1", "PENDING"}, args[3:])

	query, args, err = buildStatusQuery("a-1", domain.StatusPending, domain.StatusCancelled, nil, at)
	require.NoError(t, err)
	assert.NotContains(t, query, "provider_notes =")
	assert.Len(t, args, 4)
}

func TestBuildPatchQuery(t *testing.T) {
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	at := types.TimeString("16:30")

	query, args, err := buildPatchQuery("a-1", domain.StatusPending, domain.AppointmentPatch{
		ScheduledDate: &date,
		ScheduledTime: &at,
		UpdatedAt:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Contains(t, query, "scheduled_date = $")
	assert.Contains(t, query, "scheduled_time = $")
	assert.Contains(t, query, "updated_at = $")
	assert.NotContains(t, query, "location =")
	assert.Contains(t, args, "2025-03-12")
	assert.Contains(t, args, "16:30")
	assert.Contains(t, args, "PENDING")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}
