package cancel_appointment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "cancelled", wantCode: http.StatusNoContent},
		{name: "not found", err: appointments.ErrAppointmentNotFound, wantCode: http.StatusNotFound},
		{name: "terminal", err: fmt.Errorf("%w: status COMPLETED", appointments.ErrNotCancellable), wantCode: http.StatusBadRequest},
		{name: "race", err: appointments.ErrConcurrentUpdate, wantCode: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Delete", mock.Anything, "a-1").Return(tt.err)

			r := mux.NewRouter()
			r.HandleFunc("/appointments/{id}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodDelete)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/appointments/a-1", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusNoContent {
				assert.Empty(t, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}
