package handlers

import (
	"github.com/gin-gonic/gin"

	"lyra/internal/service"
)

type JWSTHandler struct {
	service service.JWSTService
}

func NewJWSTHandler(service service.JWSTService) *JWSTHandler {
	return &JWSTHandler{service: service}
}

// APIImages отдает изображения программы; без параметра используется
// программа по умолчанию из конфигурации
func (h *JWSTHandler) APIImages(c *gin.Context) {
	images, err := h.service.GetImages(c.Request.Context(), c.Param("programId"))
	if err != nil {
		respondServiceError(c, "JWST_FETCH_ERROR", err)
		return
	}
	respondData(c, images)
}
