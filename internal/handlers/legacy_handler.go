package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"lyra/internal/api"
	"lyra/internal/service"
)

// LegacyHandler - браузер каталога legacy-файлов (CSV/XLSX) и выгрузка
// журнала позиций
type LegacyHandler struct {
	service service.LegacyService
}

func NewLegacyHandler(service service.LegacyService) *LegacyHandler {
	return &LegacyHandler{service: service}
}

func (h *LegacyHandler) Index(c *gin.Context) {
	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}

	listing, err := h.service.List(page)
	if err != nil {
		c.HTML(http.StatusOK, "legacy_index.html", gin.H{
			"Title": "Legacy Files",
			"Error": errorMessage(c, err),
		})
		return
	}

	c.HTML(http.StatusOK, "legacy_index.html", gin.H{
		"Title":   "Legacy Files",
		"Listing": listing,
	})
}

func (h *LegacyHandler) View(c *gin.Context) {
	filename := c.Param("filename")

	view, err := h.service.View(filename)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrForbidden):
			c.String(http.StatusForbidden, "403 Forbidden")
		case errors.Is(err, api.ErrNotFound):
			c.String(http.StatusNotFound, "404 Not Found")
		default:
			c.HTML(http.StatusOK, "legacy_view.html", gin.H{
				"Title": filename,
				"Error": errorMessage(c, err),
			})
		}
		return
	}

	if view.Download {
		c.FileAttachment(view.Path, view.Name)
		return
	}

	c.HTML(http.StatusOK, "legacy_view.html", gin.H{
		"Title": view.Name,
		"View":  view,
	})
}

func (h *LegacyHandler) Export(c *gin.Context) {
	path, err := h.service.ExportHistory(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		respondServiceError(c, "ISS_HISTORY_ERROR", err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
