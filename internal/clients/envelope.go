package clients

import (
	"encoding/json"
	"fmt"

	"lyra/internal/api"
)

// UpstreamEnvelope - нормализованный конверт ответа upstream-а.
// Источники используют то ok, то success как дискриминант, а ошибку
// отдают то строкой, то объектом - адаптер сводит оба варианта к одному типу
type UpstreamEnvelope struct {
	OK           bool
	Data         json.RawMessage
	ErrorMessage string
}

type rawEnvelope struct {
	OK      *bool           `json:"ok"`
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func ParseEnvelope(body []byte) (*UpstreamEnvelope, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &api.UpstreamError{Body: string(body), Err: fmt.Errorf("decode envelope: %w", err)}
	}

	var flag *bool
	switch {
	case raw.OK != nil:
		flag = raw.OK
	case raw.Success != nil:
		flag = raw.Success
	default:
		return nil, &api.UpstreamError{Body: string(body), Err: fmt.Errorf("envelope has no ok/success flag")}
	}

	env := &UpstreamEnvelope{
		OK:   *flag,
		Data: raw.Data,
	}
	if !env.OK {
		env.ErrorMessage = parseErrorMessage(raw.Error)
	}
	return env, nil
}

func parseErrorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return ""
}

// Err возвращает UpstreamDataError, если конверт сообщил о неуспехе
func (e *UpstreamEnvelope) Err() error {
	if e.OK {
		return nil
	}
	msg := e.ErrorMessage
	if msg == "" {
		msg = "unknown upstream error"
	}
	return &api.UpstreamDataError{Message: msg}
}

// HasData - в конверте есть непустой payload
func (e *UpstreamEnvelope) HasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}
