package api

import (
	"net/http"
	"time"
)

// HttpErrorInfo is the error body returned by every service in the system.
// The same shape is parsed back by the composite service when it classifies
// upstream failures.
type HttpErrorInfo struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

func NewHttpErrorInfo(status int, path string, message string) HttpErrorInfo {
	return HttpErrorInfo{
		Timestamp: time.Now(),
		Path:      path,
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	}
}
