package get_company_appointments

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

// Handle GET /api/v1/companies/{companyId}/appointments
// Query params: status, dateFrom, dateTo, skip, take (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]

	req, err := handlers.ParseListRequest(r)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListByCompany(r.Context(), companyID, req)
	if err != nil {
		if errors.Is(err, appointments.ErrInvalidInput) {
			h.logger.Warn("GET /companies/{id}/appointments - Invalid filter: company_id=%s, error=%v", companyID, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("GET /companies/{id}/appointments - Failed to list appointments: company_id=%s, error=%v", companyID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /companies/{id}/appointments - Appointments retrieved successfully: company_id=%s, count=%d, total=%d",
		companyID, len(result.Data), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
