package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lyra/internal/api"
)

const traceHeader = "X-Trace-ID"

// TraceMiddleware присваивает запросу trace id (req_), пишет access-лог
// и перехватывает паники: клиент получает конверт INTERNAL_ERROR вместо
// пустого 500. В debug-режиме текст паники отдается как есть
func TraceMiddleware(debug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if traceID == "" {
			traceID = api.NewTraceID("req_")
		}
		c.Set("trace_id", traceID)
		c.Set("debug", debug)
		c.Header(traceHeader, traceID)

		start := time.Now()

		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[%s] panic recovered: %v", traceID, rec)

				message := "An error occurred"
				if debug {
					message = formatPanic(rec)
				}
				c.AbortWithStatusJSON(http.StatusOK, api.Error("INTERNAL_ERROR", message, traceID))
				return
			}

			log.Printf("[%s] %s %s -> %d (%s)",
				traceID,
				c.Request.Method,
				c.Request.URL.Path,
				c.Writer.Status(),
				time.Since(start))
		}()

		c.Next()
	}
}

func formatPanic(rec interface{}) string {
	if err, ok := rec.(error); ok {
		return err.Error()
	}
	if str, ok := rec.(string); ok {
		return str
	}
	return "unexpected internal failure"
}
