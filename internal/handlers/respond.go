package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lyra/internal/api"
)

const genericErrorMessage = "An error occurred"

func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, api.Success(data))
}

// respondServiceError переводит ошибку сервиса в конверт. Валидация
// отдается как 422, остальное - как HTTP 200 с error-вариантом;
// сырой текст ошибки виден только в debug-режиме
func respondServiceError(c *gin.Context, code string, err error) {
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		respondValidation(c, ve.Details)
		return
	}

	c.JSON(http.StatusOK, api.Error(code, errorMessage(c, err)))
}

func respondValidation(c *gin.Context, details map[string]string) {
	env := api.Error("VALIDATION_ERROR", "invalid request parameters")
	env.Error.Details = details
	c.JSON(http.StatusUnprocessableEntity, env)
}

func errorMessage(c *gin.Context, err error) string {
	if c.GetBool("debug") {
		return err.Error()
	}
	return genericErrorMessage
}
