package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "slot taken")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "slot taken"}, body)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Status string `json:"status"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"ACCEPTED"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "ACCEPTED", dst.Status)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"ACCEPTED","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestParseListRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?status=PENDING&dateFrom=2025-03-01&skip=20&take=10", nil)

	req, err := ParseListRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", *req.Status)
	assert.Equal(t, "2025-03-01", *req.DateFrom)
	assert.Nil(t, req.DateTo)
	assert.Equal(t, 20, req.Skip)
	assert.Equal(t, 10, req.Take)

	_, err = ParseListRequest(httptest.NewRequest(http.MethodGet, "/?take=ten", nil))
	assert.Error(t, err)
}

func TestParseStatsRequest(t *testing.T) {
	req := ParseStatsRequest(httptest.NewRequest(http.MethodGet, "/?providerKind=employee&providerId=e-1", nil))
	assert.Equal(t, "employee", *req.ProviderKind)
	assert.Equal(t, "e-1", *req.ProviderID)
	assert.Nil(t, req.ClientID)
	assert.Nil(t, req.CompanyID)
}
