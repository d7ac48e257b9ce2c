package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotConflict       = "выбранный временной слот уже занят"
	msgPastDate           = "дата и время записи должны быть в будущем"
)

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

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Клиент по умолчанию - автор запроса
	if req.ClientID == "" {
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			req.ClientID = userID
		}
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: provider=%s:%s, date=%s, time=%s",
				req.ProviderKind, req.ProviderID, req.ScheduledDate, req.ScheduledTime)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, appointments.ErrPastDate):
			h.logger.Warn("POST /appointments - Date in the past: date=%s, time=%s", req.ScheduledDate, req.ScheduledTime)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%s, error=%v", req.ClientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: id=%s, client_id=%s", result.ID, result.ClientID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
