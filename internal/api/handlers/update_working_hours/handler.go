package update_working_hours

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours"
	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours/models"
)

const msgInvalidRequestBody = "некорректное тело запроса"

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

// Handle PUT /api/v1/providers/{kind}/{providerId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, providerID := vars["kind"], vars["providerId"]

	var req models.ReplaceWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{kind}/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Replace(r.Context(), kind, providerID, &req)
	if err != nil {
		if errors.Is(err, workinghours.ErrInvalidInput) {
			h.logger.Warn("PUT /providers/{kind}/{id}/working-hours - Invalid data: provider=%s:%s, error=%v", kind, providerID, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("PUT /providers/{kind}/{id}/working-hours - Failed to replace working hours: provider=%s:%s, error=%v",
			kind, providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /providers/{kind}/{id}/working-hours - Working hours replaced successfully: provider=%s:%s", kind, providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
