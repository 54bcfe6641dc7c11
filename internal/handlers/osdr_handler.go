package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"lyra/internal/service"
)

type OSDRHandler struct {
	service service.OSDRService
}

func NewOSDRHandler(service service.OSDRService) *OSDRHandler {
	return &OSDRHandler{service: service}
}

func (h *OSDRHandler) APISync(c *gin.Context) {
	result, err := h.service.Sync(c.Request.Context())
	if err != nil {
		respondServiceError(c, "OSDR_SYNC_ERROR", err)
		return
	}
	respondData(c, result)
}

func (h *OSDRHandler) APIList(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 500 {
			respondValidation(c, map[string]string{"limit": "must be between 1 and 500"})
			return
		}
		limit = parsed
	}

	datasets, err := h.service.GetDatasets(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, "OSDR_LIST_ERROR", err)
		return
	}
	respondData(c, datasets)
}
