package get_working_hours

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours"
)

const msgNotFound = "рабочее время провайдера не задано"

type Handler struct {
	service WorkingHoursService
	logger  Logger
}

func NewHandler(service WorkingHoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{kind}/{providerId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, providerID := vars["kind"], vars["providerId"]

	result, err := h.service.Get(r.Context(), kind, providerID)
	if err != nil {
		switch {
		case errors.Is(err, workinghours.ErrWorkingHoursNotFound):
			h.logger.Warn("GET /providers/{kind}/{id}/working-hours - Not found: provider=%s:%s", kind, providerID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, workinghours.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /providers/{kind}/{id}/working-hours - Failed to get working hours: provider=%s:%s, error=%v",
				kind, providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{kind}/{id}/working-hours - Working hours retrieved successfully: provider=%s:%s", kind, providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
