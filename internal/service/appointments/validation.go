package appointments

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// validateCreateRequest проверяет запрос и собирает черновик записи
func validateCreateRequest(req *models.CreateAppointmentRequest, loc *time.Location) (*domain.Appointment, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, fmt.Errorf("%w: clientId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceID) == "" {
		return nil, fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	provider, err := parseProvider(req.ProviderKind, req.ProviderID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate("scheduledDate", req.ScheduledDate, loc)
	if err != nil {
		return nil, err
	}

	at, err := parseTime("scheduledTime", req.ScheduledTime)
	if err != nil {
		return nil, err
	}

	if err := validateLocation(req.Location); err != nil {
		return nil, err
	}

	if err := validateNotes(req.ClientNotes); err != nil {
		return nil, err
	}

	return &domain.Appointment{
		ClientID:      req.ClientID,
		Provider:      provider,
		ServiceID:     req.ServiceID,
		ScheduledDate: date,
		ScheduledTime: at,
		Status:        domain.StatusPending,
		Location:      strings.TrimSpace(req.Location),
		ClientNotes:   req.ClientNotes,
	}, nil
}

// validateUpdateRequest проверяет частичное обновление
func validateUpdateRequest(req *models.UpdateAppointmentRequest, loc *time.Location) (domain.AppointmentPatch, error) {
	var patch domain.AppointmentPatch

	if req.ScheduledDate != nil {
		date, err := parseDate("scheduledDate", *req.ScheduledDate, loc)
		if err != nil {
			return patch, err
		}
		patch.ScheduledDate = &date
	}

	if req.ScheduledTime != nil {
		at, err := parseTime("scheduledTime", *req.ScheduledTime)
		if err != nil {
			return patch, err
		}
		patch.ScheduledTime = &at
	}

	if req.Location != nil {
		if err := validateLocation(*req.Location); err != nil {
			return patch, err
		}
		location := strings.TrimSpace(*req.Location)
		patch.Location = &location
	}

	if req.ClientNotes != nil {
		if err := validateNotes(req.ClientNotes); err != nil {
			return patch, err
		}
		patch.ClientNotes = req.ClientNotes
	}

	if patch.IsEmpty() {
		return patch, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	return patch, nil
}

// parseProvider собирает провайдера для записи; для employee компания обязательна
func parseProvider(kind, id string, companyID *string) (domain.Provider, error) {
	providerKind, err := domain.ParseProviderKind(kind)
	if err != nil {
		return domain.Provider{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	provider := domain.Provider{Kind: providerKind, ID: strings.TrimSpace(id)}
	if providerKind == domain.ProviderEmployee {
		provider.CompanyID = companyID
	}

	if err := provider.Validate(); err != nil {
		return domain.Provider{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return provider, nil
}

// parseProviderRef ссылка на провайдера для чтения: вид и ID без компании
func parseProviderRef(kind, id string) (domain.Provider, error) {
	providerKind, err := domain.ParseProviderKind(kind)
	if err != nil {
		return domain.Provider{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(id) == "" {
		return domain.Provider{}, fmt.Errorf("%w: providerId is required", ErrInvalidInput)
	}
	return domain.Provider{Kind: providerKind, ID: strings.TrimSpace(id)}, nil
}

func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	date, err := time.ParseInLocation(domain.DateFormat, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be in YYYY-MM-DD format", ErrInvalidInput, field)
	}
	return date, nil
}

func parseTime(field, value string) (types.TimeString, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	at, err := types.NewTimeStringFromString(value)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, err)
	}
	return at, nil
}

func validateLocation(location string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(location))
	if n < domain.MinLocationLength {
		return fmt.Errorf("%w: location must be at least %d characters", ErrInvalidInput, domain.MinLocationLength)
	}
	if n > domain.MaxLocationLength {
		return fmt.Errorf("%w: location must be at most %d characters", ErrInvalidInput, domain.MaxLocationLength)
	}
	return nil
}

func validateNotes(notes *string) error {
	if notes != nil && utf8.RuneCountInString(*notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// buildListFilter собирает фильтр списка из опциональных параметров
func (s *Service) buildListFilter(req *models.ListRequest) (domain.AppointmentFilter, error) {
	var filter domain.AppointmentFilter

	if err := s.applyCommonFilters(&filter, req.Status, req.DateFrom, req.DateTo); err != nil {
		return filter, err
	}

	if req.Skip < 0 {
		return filter, fmt.Errorf("%w: skip must not be negative", ErrInvalidInput)
	}
	if req.Take < 0 {
		return filter, fmt.Errorf("%w: take must not be negative", ErrInvalidInput)
	}

	take := req.Take
	if take == 0 {
		take = s.cfg.DefaultPageSize
	}
	if take > s.cfg.MaxPageSize {
		take = s.cfg.MaxPageSize
	}

	filter.Skip = req.Skip
	filter.Take = take
	return filter, nil
}

func (s *Service) applyCommonFilters(filter *domain.AppointmentFilter, status, dateFrom, dateTo *string) error {
	if status != nil && *status != "" {
		st, err := domain.ParseStatus(*status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &st
	}

	if dateFrom != nil && *dateFrom != "" {
		from, err := parseDate("dateFrom", *dateFrom, s.cfg.Location)
		if err != nil {
			return err
		}
		filter.DateFrom = &from
	}

	if dateTo != nil && *dateTo != "" {
		to, err := parseDate("dateTo", *dateTo, s.cfg.Location)
		if err != nil {
			return err
		}
		filter.DateTo = &to
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return fmt.Errorf("%w: dateTo must not be before dateFrom", ErrInvalidInput)
	}

	return nil
}
