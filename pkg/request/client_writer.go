package request

import (
	"errors"
	"net/http"
)

// ErrInternalServer is the error shown when a handler fails unexpectedly.
var ErrInternalServer = errors.New("internal server error")

// ClientWriter records the status code written to the client.
type ClientWriter struct {
	http.ResponseWriter
	statusCode int
}

// NewClientWriter wraps w. The status code defaults to 200.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader records the status code and writes it.
func (c *ClientWriter) WriteHeader(code int) {
	c.statusCode = code
	c.ResponseWriter.WriteHeader(code)
}

// StatusCode is the status code written to the client.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}
