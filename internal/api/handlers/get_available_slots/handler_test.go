package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) AvailableTimeSlots(ctx context.Context, kind, providerID, date string) (*models.AvailableSlotsResponse, error) {
	args := m.Called(ctx, kind, providerID, date)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.AvailableSlotsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/providers/{kind}/{providerId}/available-slots", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("AvailableTimeSlots", mock.Anything, "professional", "P1", "2025-03-10").Return(&models.AvailableSlotsResponse{
		ProviderKind: "professional",
		ProviderID:   "P1",
		Date:         "2025-03-10",
		Slots:        []string{"08:00", "08:30"},
	}, nil)

	rec := serve(svc, "/providers/professional/P1/available-slots?date=2025-03-10")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"08:00", "08:30"}, resp.Slots)
}

func TestHandle_MissingDate(t *testing.T) {
	svc := &mockService{}

	rec := serve(svc, "/providers/professional/P1/available-slots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "AvailableTimeSlots", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_Errors(t *testing.T) {
	svc := &mockService{}
	svc.On("AvailableTimeSlots", mock.Anything, "professional", "P1", "bad").Return(nil, appointments.ErrInvalidInput)
	svc.On("AvailableTimeSlots", mock.Anything, "professional", "P1", "2025-03-10").Return(nil, appointments.ErrInternal)

	assert.Equal(t, http.StatusBadRequest, serve(svc, "/providers/professional/P1/available-slots?date=bad").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(svc, "/providers/professional/P1/available-slots?date=2025-03-10").Code)
}
