package delete_working_hours

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/workinghours"
)

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

// Handle DELETE /api/v1/providers/{kind}/{providerId}/working-hours
// После удаления провайдер снова доступен в течение всей сетки слотов.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, providerID := vars["kind"], vars["providerId"]

	if err := h.service.Delete(r.Context(), kind, providerID); err != nil {
		if errors.Is(err, workinghours.ErrInvalidInput) {
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("DELETE /providers/{kind}/{id}/working-hours - Failed to delete working hours: provider=%s:%s, error=%v",
			kind, providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /providers/{kind}/{id}/working-hours - Working hours deleted: provider=%s:%s", kind, providerID)
	w.WriteHeader(http.StatusNoContent)
}
