package adclient

import (
	"errors"
	"fmt"
)

const maxErrorBodyLength = 500

var ErrMissingReportID = errors.New("report id missing in create response")

// TransportError indica falha de rede ou de leitura da resposta
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("adplatform transport error on %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError indica uma resposta diferente de 200
type StatusError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("adplatform returned status %d on %s %s: %s", e.StatusCode, e.Method, e.Endpoint, e.Body)
}

func truncateBody(body []byte) string {
	runes := []rune(string(body))
	if len(runes) <= maxErrorBodyLength {
		return string(runes)
	}
	return string(runes[:maxErrorBodyLength])
}
