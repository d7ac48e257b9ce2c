package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
)

const msgMissingDate = "дата обязательна"

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

// Handle GET /api/v1/providers/{kind}/{providerId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, providerID := vars["kind"], vars["providerId"]

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /providers/{kind}/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.service.AvailableTimeSlots(r.Context(), kind, providerID, date)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /providers/{kind}/{id}/available-slots - Invalid parameters: provider=%s:%s, error=%v",
				kind, providerID, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /providers/{kind}/{id}/available-slots - Failed to get slots: provider=%s:%s, date=%s, error=%v",
			kind, providerID, date, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /providers/{kind}/{id}/available-slots - Slots retrieved successfully: provider=%s:%s, date=%s, slots_count=%d",
		kind, providerID, date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
