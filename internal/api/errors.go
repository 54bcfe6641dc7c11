package api

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden - попытка обращения к запрещенному файлу (path traversal,
	// неподдерживаемое расширение)
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound - ресурс или файл отсутствует
	ErrNotFound = errors.New("not found")
)

// ValidationError - невалидные входные параметры, отдается как 422
// с подробностями по полям
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Details))
}

// UpstreamError - внешний вызов завершился не-2xx статусом или
// транспортной ошибкой (StatusCode == 0)
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
	return "upstream request failed"
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UpstreamDataError - транспорт отработал, но конверт upstream-а
// сообщил о неуспехе
type UpstreamDataError struct {
	Message string
}

func (e *UpstreamDataError) Error() string {
	return e.Message
}

// IsUpstreamFailure проверяет, относится ли ошибка к внешнему источнику.
// Используется для ветвления fallback-цепочек, чтобы не маскировать
// программные ошибки
func IsUpstreamFailure(err error) bool {
	var ue *UpstreamError
	var de *UpstreamDataError
	return errors.As(err, &ue) || errors.As(err, &de)
}
