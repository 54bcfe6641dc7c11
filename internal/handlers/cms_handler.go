package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Статические CMS-страницы; содержимое фиксировано, слаг задает
// заголовок и текст
var cmsPages = map[string]gin.H{
	"about": {
		"Title": "About",
		"Body":  "Lyra aggregates live space data: ISS telemetry, NASA OSDR datasets, JWST imagery and astronomy events.",
	},
	"contact": {
		"Title": "Contact",
		"Body":  "Questions and data corrections: open an issue in the project tracker.",
	},
	"privacy": {
		"Title": "Privacy",
		"Body":  "The dashboard stores no personal data. Upstream requests carry no user identifiers.",
	},
}

type CMSHandler struct{}

func NewCMSHandler() *CMSHandler {
	return &CMSHandler{}
}

func (h *CMSHandler) Page(c *gin.Context) {
	page, ok := cmsPages[c.Param("slug")]
	if !ok {
		c.String(http.StatusNotFound, "404 Not Found")
		return
	}
	c.HTML(http.StatusOK, "page.html", page)
}
