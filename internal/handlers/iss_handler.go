package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"lyra/internal/service"
)

type ISSHandler struct {
	service service.ISSService
}

func NewISSHandler(service service.ISSService) *ISSHandler {
	return &ISSHandler{service: service}
}

func (h *ISSHandler) APILast(c *gin.Context) {
	position, err := h.service.GetCurrent(c.Request.Context())
	if err != nil {
		respondServiceError(c, "ISS_FETCH_ERROR", err)
		return
	}
	respondData(c, position)
}

func (h *ISSHandler) APIFetch(c *gin.Context) {
	position, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		respondServiceError(c, "ISS_FETCH_ERROR", err)
		return
	}
	respondData(c, position)
}

const historyDateLayout = "2006-01-02"

type issHistoryQuery struct {
	StartDate string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end" binding:"omitempty,datetime=2006-01-02"`
	Limit     int    `form:"limit,default=100" binding:"min=1,max=1000"`
}

var historyFieldNames = map[string]string{
	"StartDate": "start",
	"EndDate":   "end",
	"Limit":     "limit",
}

// bindingDetails переводит ошибки валидатора в карту поле-сообщение
func bindingDetails(err error) map[string]string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string]string{"query": "malformed query parameters"}
	}

	details := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := historyFieldNames[fe.Field()]
		if field == "" {
			field = fe.Field()
		}
		switch fe.Tag() {
		case "datetime":
			details[field] = "must be a date in YYYY-MM-DD format"
		case "min", "max":
			details[field] = "must be between 1 and 1000"
		default:
			details[field] = "is invalid"
		}
	}
	return details
}

// validate добавляет проверки, которые не выражаются тегами:
// запрет дат из будущего и порядок диапазона
func (q *issHistoryQuery) validate() map[string]string {
	details := map[string]string{}
	now := time.Now().UTC()

	var start, end time.Time
	if q.StartDate != "" {
		start, _ = time.Parse(historyDateLayout, q.StartDate)
		if start.After(now) {
			details["start"] = "must not be in the future"
		}
	}
	if q.EndDate != "" {
		end, _ = time.Parse(historyDateLayout, q.EndDate)
		if end.After(now) {
			details["end"] = "must not be in the future"
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		details["end"] = "must not be before start"
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

func (h *ISSHandler) APIHistory(c *gin.Context) {
	var query issHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidation(c, bindingDetails(err))
		return
	}
	if details := query.validate(); details != nil {
		respondValidation(c, details)
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), query.StartDate, query.EndDate, query.Limit)
	if err != nil {
		respondServiceError(c, "ISS_HISTORY_ERROR", err)
		return
	}
	respondData(c, history)
}
