package get_appointment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id string) (*models.AppointmentResponse, error) {
	args := m.Called(ctx, id)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.AppointmentResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *mockService, id string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/appointments/{id}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/"+id, nil))
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		resp     *models.AppointmentResponse
		err      error
		wantCode int
	}{
		{name: "found", resp: &models.AppointmentResponse{ID: "a-1", Status: "PENDING"}, wantCode: http.StatusOK},
		{name: "not found", err: appointments.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
		{name: "invalid id", err: appointments.ErrInvalidInput, wantCode: http.StatusBadRequest},
		{name: "internal", err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetByID", mock.Anything, "a-1").Return(tt.resp, tt.err)

			rec := serve(svc, "a-1")

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.resp != nil {
				assert.Contains(t, rec.Body.String(), `"id":"a-1"`)
			}
			svc.AssertExpectations(t)
		})
	}
}
