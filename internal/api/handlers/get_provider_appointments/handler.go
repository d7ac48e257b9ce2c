package get_provider_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
)

const msgInvalidParams = "некорректные параметры запроса"

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{kind}/{providerId}/appointments
// Query params: status, dateFrom, dateTo, skip, take (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, providerID := vars["kind"], vars["providerId"]

	req, err := handlers.ParseListRequest(r)
	if err != nil {
		h.logger.Warn("GET /providers/{kind}/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByProvider(r.Context(), kind, providerID, req)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /providers/{kind}/{id}/appointments - Invalid filter: provider=%s:%s, error=%v", kind, providerID, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /providers/{kind}/{id}/appointments - Failed to list appointments: provider=%s:%s, error=%v",
			kind, providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{kind}/{id}/appointments - Appointments retrieved successfully: provider=%s:%s, count=%d, total=%d",
		kind, providerID, len(result.Data), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
