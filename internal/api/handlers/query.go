package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// optional возвращает указатель на значение query параметра или nil
func optional(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// ParseListRequest читает status, dateFrom, dateTo, skip, take из query
func ParseListRequest(r *http.Request) (*models.ListRequest, error) {
	req := &models.ListRequest{
		Status:   optional(r, "status"),
		DateFrom: optional(r, "dateFrom"),
		DateTo:   optional(r, "dateTo"),
	}

	var err error
	if req.Skip, err = intParam(r, "skip"); err != nil {
		return nil, err
	}
	if req.Take, err = intParam(r, "take"); err != nil {
		return nil, err
	}
	return req, nil
}

// ParseStatsRequest читает фильтры статистики из query
func ParseStatsRequest(r *http.Request) *models.StatsRequest {
	return &models.StatsRequest{
		ClientID:     optional(r, "clientId"),
		ProviderKind: optional(r, "providerKind"),
		ProviderID:   optional(r, "providerId"),
		CompanyID:    optional(r, "companyId"),
		DateFrom:     optional(r, "dateFrom"),
		DateTo:       optional(r, "dateTo"),
	}
}

func intParam(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", key, v)
	}
	return n, nil
}
