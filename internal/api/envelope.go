package api

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ErrorBody - тело ошибки в едином формате ответа
type ErrorBody struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	TraceID    string            `json:"trace_id"`
	Details    map[string]string `json:"details,omitempty"`
	RetryAfter int               `json:"retry_after,omitempty"`
}

// Envelope - единый формат ответа API: ровно одно из data/error,
// дискриминант ok присутствует всегда
type Envelope struct {
	OK    bool
	Data  interface{}
	Error *ErrorBody
}

func Success(data interface{}) Envelope {
	return Envelope{OK: true, Data: data}
}

func Error(code, message string, traceID ...string) Envelope {
	id := ""
	if len(traceID) > 0 {
		id = traceID[0]
	}
	if id == "" {
		id = NewTraceID("err_")
	}
	return Envelope{
		OK: false,
		Error: &ErrorBody{
			Code:    code,
			Message: message,
			TraceID: id,
		},
	}
}

// NewTraceID генерирует уникальный идентификатор с префиксом домена ошибки
func NewTraceID(prefix string) string {
	return prefix + uuid.New().String()
}

type successWire struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data"`
}

type errorWire struct {
	OK    bool       `json:"ok"`
	Error *ErrorBody `json:"error"`
}

// MarshalJSON никогда не возвращает ошибку: несериализуемый payload
// превращается в error-вариант конверта
func (e Envelope) MarshalJSON() ([]byte, error) {
	if !e.OK {
		body := e.Error
		if body == nil {
			body = &ErrorBody{
				Code:    "INTERNAL_ERROR",
				Message: "unknown error",
				TraceID: NewTraceID("err_"),
			}
		}
		return json.Marshal(errorWire{OK: false, Error: body})
	}

	out, err := json.Marshal(successWire{OK: true, Data: e.Data})
	if err != nil {
		fallback := Error("SERIALIZATION_ERROR", "response payload is not serializable")
		return json.Marshal(errorWire{OK: false, Error: fallback.Error})
	}
	return out, nil
}
