package handlers

import (
	"github.com/gin-gonic/gin"

	"lyra/internal/middleware"
)

type Handlers struct {
	ISS       *ISSHandler
	OSDR      *OSDRHandler
	JWST      *JWSTHandler
	Astro     *AstroHandler
	Proxy     *ProxyHandler
	Legacy    *LegacyHandler
	Dashboard *DashboardHandler
	CMS       *CMSHandler
}

// SetupRouter вешает маршруты JSON API и HTML-страниц на роутер
func SetupRouter(r *gin.Engine, h Handlers, debug bool) {
	r.Use(middleware.TraceMiddleware(debug))

	// JSON API
	r.GET("/iss/api/last", h.ISS.APILast)
	r.POST("/iss/api/fetch", h.ISS.APIFetch)
	r.GET("/iss/api/history", h.ISS.APIHistory)

	r.POST("/osdr/api/sync", h.OSDR.APISync)
	r.GET("/osdr/api/list", h.OSDR.APIList)

	r.GET("/jwst/api/images", h.JWST.APIImages)
	r.GET("/jwst/api/images/:programId", h.JWST.APIImages)

	r.GET("/astro/api/events", h.Astro.APIEvents)
	r.GET("/astro/api/bodies", h.Astro.APIBodies)
	r.GET("/astro/api/moon-phase", h.Astro.APIMoonPhase)

	r.GET("/proxy/*path", h.Proxy.Forward)

	r.GET("/health", h.Dashboard.Health)

	// HTML-страницы
	r.GET("/", h.Dashboard.Dashboard)
	r.GET("/dashboard", h.Dashboard.Dashboard)
	r.GET("/iss", h.Dashboard.ISSPage)
	r.GET("/osdr", h.Dashboard.OSDRPage)
	r.GET("/page/:slug", h.CMS.Page)

	r.GET("/legacy", h.Legacy.Index)
	r.GET("/legacy/view/:filename", h.Legacy.View)
	r.GET("/legacy/export", h.Legacy.Export)
}
