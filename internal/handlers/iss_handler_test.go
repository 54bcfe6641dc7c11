package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyra/internal/api"
	"lyra/internal/models"
)

type stubISSService struct {
	current    *models.IssPosition
	currentErr error
	history    []models.IssPosition
	historyErr error
}

func (s *stubISSService) GetCurrent(ctx context.Context) (*models.IssPosition, error) {
	return s.current, s.currentErr
}

func (s *stubISSService) Refresh(ctx context.Context) (*models.IssPosition, error) {
	return s.current, s.currentErr
}

func (s *stubISSService) GetHistory(ctx context.Context, start, end string, limit int) ([]models.IssPosition, error) {
	return s.history, s.historyErr
}

type envelopeBody struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *api.ErrorBody  `json:"error"`
}

func performRequest(t *testing.T, handler gin.HandlerFunc, method, target string) (*httptest.ResponseRecorder, envelopeBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Handle(method, "/endpoint", handler)

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body envelopeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestISSHandlerAPILastSuccess(t *testing.T) {
	h := NewISSHandler(&stubISSService{current: &models.IssPosition{
		Latitude:  51.5,
		Timestamp: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}})

	w, body := performRequest(t, h.APILast, http.MethodGet, "/endpoint")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.OK)
	assert.Nil(t, body.Error)
	assert.Contains(t, string(body.Data), `"latitude":51.5`)
}

func TestISSHandlerAPILastServiceError(t *testing.T) {
	h := NewISSHandler(&stubISSService{
		currentErr: &api.UpstreamDataError{Message: "upstream exploded"},
	})

	w, body := performRequest(t, h.APILast, http.MethodGet, "/endpoint")

	// Ошибки сервиса отдаются как HTTP 200 с error-конвертом
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, body.OK)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ISS_FETCH_ERROR", body.Error.Code)

	// Вне debug-режима сырой текст скрыт
	assert.Equal(t, "An error occurred", body.Error.Message)
	assert.True(t, len(body.Error.TraceID) > 4)
}

func TestISSHandlerAPIHistoryValidation(t *testing.T) {
	h := NewISSHandler(&stubISSService{})

	tests := []struct {
		name   string
		target string
		fields []string
	}{
		{
			name:   "malformed dates",
			target: "/endpoint?start=28-08-2026&end=notadate",
			fields: []string{"start", "end"},
		},
		{
			name:   "end before start",
			target: "/endpoint?start=2026-08-20&end=2026-08-10",
			fields: []string{"end"},
		},
		{
			name:   "future date",
			target: "/endpoint?start=2099-01-01",
			fields: []string{"start"},
		},
		{
			name:   "limit out of range",
			target: "/endpoint?limit=100000",
			fields: []string{"limit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := performRequest(t, h.APIHistory, http.MethodGet, tt.target)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.False(t, body.OK)
			require.NotNil(t, body.Error)
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
			for _, field := range tt.fields {
				assert.Contains(t, body.Error.Details, field)
			}
		})
	}
}

func TestISSHandlerAPIHistorySuccess(t *testing.T) {
	h := NewISSHandler(&stubISSService{history: []models.IssPosition{
		{Latitude: 1}, {Latitude: 2},
	}})

	w, body := performRequest(t, h.APIHistory, http.MethodGet, "/endpoint?start=2026-08-01&end=2026-08-28&limit=10")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.OK)

	var history []models.IssPosition
	require.NoError(t, json.Unmarshal(body.Data, &history))
	assert.Len(t, history, 2)
}

func TestISSHandlerAPIHistoryServiceError(t *testing.T) {
	h := NewISSHandler(&stubISSService{
		historyErr: &api.UpstreamError{StatusCode: 503},
	})

	w, body := performRequest(t, h.APIHistory, http.MethodGet, "/endpoint")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ISS_HISTORY_ERROR", body.Error.Code)
}
