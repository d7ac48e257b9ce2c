package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// CreateAppointmentRequest запрос на создание записи
type CreateAppointmentRequest struct {
	ClientID      string  `json:"clientId"`
	ProviderKind  string  `json:"providerKind"` // professional | employee
	ProviderID    string  `json:"providerId"`
	CompanyID     *string `json:"companyId,omitempty"` // обязателен для employee
	ServiceID     string  `json:"serviceId"`
	ScheduledDate string  `json:"scheduledDate"` // "2025-03-10"
	ScheduledTime string  `json:"scheduledTime"` // "14:00"
	Location      string  `json:"location"`
	ClientNotes   *string `json:"clientNotes,omitempty"`
}

// UpdateAppointmentRequest частичное обновление записи
type UpdateAppointmentRequest struct {
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	ScheduledTime *string `json:"scheduledTime,omitempty"`
	Location      *string `json:"location,omitempty"`
	ClientNotes   *string `json:"clientNotes,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса
type UpdateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

// ListRequest фильтры и пагинация для списков
type ListRequest struct {
	Status   *string
	DateFrom *string
	DateTo   *string
	Skip     int
	Take     int
}

// StatsRequest область подсчета статистики. Все поля опциональны.
type StatsRequest struct {
	ClientID     *string
	ProviderKind *string
	ProviderID   *string
	CompanyID    *string
	DateFrom     *string
	DateTo       *string
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID            string  `json:"id"`
	ClientID      string  `json:"clientId"`
	ProviderKind  string  `json:"providerKind"`
	ProviderID    string  `json:"providerId"`
	CompanyID     *string `json:"companyId,omitempty"`
	ServiceID     string  `json:"serviceId"`
	ScheduledDate string  `json:"scheduledDate"`
	ScheduledTime string  `json:"scheduledTime"`
	Status        string  `json:"status"`
	Location      string  `json:"location"`
	ClientNotes   *string `json:"clientNotes,omitempty"`
	ProviderNotes *string `json:"providerNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentPageResponse страница записей
type AppointmentPageResponse struct {
	Data    []AppointmentResponse `json:"data"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	Limit   int                   `json:"limit"`
	HasNext bool                  `json:"hasNext"`
	HasPrev bool                  `json:"hasPrev"`
}

// AvailableSlotsResponse свободные слоты провайдера на дату
type AvailableSlotsResponse struct {
	ProviderKind string   `json:"providerKind"`
	ProviderID   string   `json:"providerId"`
	Date         string   `json:"date"`
	Slots        []string `json:"slots"`
}

// StatsResponse агрегированная статистика
type StatsResponse struct {
	Total            int     `json:"total"`
	Pending          int     `json:"pending"`
	Accepted         int     `json:"accepted"`
	Completed        int     `json:"completed"`
	Cancelled        int     `json:"cancelled"`
	Rejected         int     `json:"rejected"`
	CompletionRate   float64 `json:"completionRate"`
	CancellationRate float64 `json:"cancellationRate"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:            a.ID,
		ClientID:      a.ClientID,
		ProviderKind:  string(a.Provider.Kind),
		ProviderID:    a.Provider.ID,
		CompanyID:     a.Provider.CompanyID,
		ServiceID:     a.ServiceID,
		ScheduledDate: a.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: a.ScheduledTime.String(),
		Status:        string(a.Status),
		Location:      a.Location,
		ClientNotes:   a.ClientNotes,
		ProviderNotes: a.ProviderNotes,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// FromDomainPage конвертирует страницу записей
func FromDomainPage(p *domain.Page) *AppointmentPageResponse {
	data := make([]AppointmentResponse, 0, len(p.Data))
	for _, a := range p.Data {
		data = append(data, *FromDomainAppointment(a))
	}

	return &AppointmentPageResponse{
		Data:    data,
		Total:   p.Total,
		Page:    p.Page,
		Limit:   p.Limit,
		HasNext: p.HasNext,
		HasPrev: p.HasPrev,
	}
}

// FromSlots конвертирует слоты в ответ
func FromSlots(provider domain.Provider, date time.Time, slots []types.TimeString) *AvailableSlotsResponse {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}

	return &AvailableSlotsResponse{
		ProviderKind: string(provider.Kind),
		ProviderID:   provider.ID,
		Date:         date.Format(domain.DateFormat),
		Slots:        out,
	}
}

// FromDomainStats конвертирует статистику
func FromDomainStats(s domain.Stats) *StatsResponse {
	return &StatsResponse{
		Total:            s.Total,
		Pending:          s.Pending,
		Accepted:         s.Accepted,
		Completed:        s.Completed,
		Cancelled:        s.Cancelled,
		Rejected:         s.Rejected,
		CompletionRate:   s.CompletionRate,
		CancellationRate: s.CancellationRate,
	}
}
