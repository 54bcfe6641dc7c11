package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"lyra/internal/api"
	"lyra/internal/clients"
)

var proxyPathRe = regexp.MustCompile(`^[a-zA-Z0-9/_\-.]+$`)

// ProxyHandler - сквозной доступ к вычислительному API для фронтенда
type ProxyHandler struct {
	client clients.ComputeClient
}

func NewProxyHandler(client clients.ComputeClient) *ProxyHandler {
	return &ProxyHandler{client: client}
}

func (h *ProxyHandler) Forward(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" || !proxyPathRe.MatchString(path) || strings.Contains(path, "..") {
		respondValidation(c, map[string]string{"path": "contains forbidden characters"})
		return
	}

	body, err := h.client.Raw(c.Request.Context(), path, c.Request.URL.Query())
	if err != nil {
		env := api.Error("PROXY_ERROR", errorMessage(c, err), api.NewTraceID("prx_"))
		c.JSON(http.StatusOK, env)
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
