package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lyra/internal/service"
)

// Координаты по умолчанию - Москва
const (
	defaultLatitude  = 55.7558
	defaultLongitude = 37.6176
	defaultEventDays = 7
)

type AstroHandler struct {
	service service.AstroService
}

func NewAstroHandler(service service.AstroService) *AstroHandler {
	return &AstroHandler{service: service}
}

func (h *AstroHandler) APIEvents(c *gin.Context) {
	lat := queryFloat(c, "lat", defaultLatitude)
	lon := queryFloat(c, "lon", defaultLongitude)
	days := queryInt(c, "days", defaultEventDays)

	events, err := h.service.GetEvents(c.Request.Context(), lat, lon, days)
	if err != nil {
		respondServiceError(c, "ASTRONOMY_FETCH_ERROR", err)
		return
	}
	respondData(c, events)
}

func (h *AstroHandler) APIBodies(c *gin.Context) {
	bodies, err := h.service.GetBodies(c.Request.Context())
	if err != nil {
		respondServiceError(c, "ASTRONOMY_FETCH_ERROR", err)
		return
	}
	respondData(c, bodies)
}

func (h *AstroHandler) APIMoonPhase(c *gin.Context) {
	date := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			respondValidation(c, map[string]string{"date": "must be a date in YYYY-MM-DD format"})
			return
		}
		date = parsed
	}

	phase, err := h.service.GetMoonPhase(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, "ASTRONOMY_FETCH_ERROR", err)
		return
	}
	respondData(c, phase)
}

func queryFloat(c *gin.Context, name string, def float64) float64 {
	if raw := c.Query(name); raw != "" {
		if val, err := strconv.ParseFloat(raw, 64); err == nil {
			return val
		}
	}
	return def
}

func queryInt(c *gin.Context, name string, def int) int {
	if raw := c.Query(name); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil && val > 0 {
			return val
		}
	}
	return def
}
