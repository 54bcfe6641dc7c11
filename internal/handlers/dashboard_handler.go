package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lyra/internal/service"
)

type DashboardHandler struct {
	issService   service.ISSService
	osdrService  service.OSDRService
	jwstService  service.JWSTService
	astroService service.AstroService
}

func NewDashboardHandler(
	issService service.ISSService,
	osdrService service.OSDRService,
	jwstService service.JWSTService,
	astroService service.AstroService,
) *DashboardHandler {
	return &DashboardHandler{
		issService:   issService,
		osdrService:  osdrService,
		jwstService:  jwstService,
		astroService: astroService,
	}
}

// Dashboard собирает данные всех источников. Сбой любого из них не
// валит страницу: блок рендерится пустым, ошибка попадает в список
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	data := gin.H{"Title": "Dashboard"}
	var pageErrors []string

	position, err := h.issService.GetCurrent(ctx)
	if err != nil {
		pageErrors = append(pageErrors, "ISS: "+errorMessage(c, err))
	} else {
		data["ISS"] = position
	}

	datasets, err := h.osdrService.GetDatasets(ctx, 10)
	if err != nil {
		pageErrors = append(pageErrors, "OSDR: "+errorMessage(c, err))
	} else {
		data["Datasets"] = datasets
	}

	images, err := h.jwstService.GetImages(ctx, "")
	if err != nil {
		pageErrors = append(pageErrors, "JWST: "+errorMessage(c, err))
	} else {
		if len(images) > 12 {
			images = images[:12]
		}
		data["Images"] = images
	}

	events, err := h.astroService.GetEvents(ctx, defaultLatitude, defaultLongitude, defaultEventDays)
	if err != nil {
		pageErrors = append(pageErrors, "Astronomy: "+errorMessage(c, err))
	} else if service.HasRows(events) {
		data["Events"] = events
	}

	data["Errors"] = pageErrors
	c.HTML(http.StatusOK, "dashboard.html", data)
}

func (h *DashboardHandler) ISSPage(c *gin.Context) {
	ctx := c.Request.Context()
	data := gin.H{"Title": "ISS Tracker"}

	position, err := h.issService.GetCurrent(ctx)
	if err != nil {
		data["Error"] = errorMessage(c, err)
	} else {
		data["ISS"] = position
	}

	history, err := h.issService.GetHistory(ctx, "", "", 100)
	if err == nil {
		data["History"] = history
	}

	c.HTML(http.StatusOK, "iss.html", data)
}

func (h *DashboardHandler) OSDRPage(c *gin.Context) {
	datasets, err := h.osdrService.GetDatasets(c.Request.Context(), 50)
	data := gin.H{"Title": "OSDR Catalog"}
	if err != nil {
		data["Error"] = errorMessage(c, err)
	} else {
		data["Datasets"] = datasets
	}

	c.HTML(http.StatusOK, "osdr.html", data)
}

func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
