package request

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/kira/pkg/logging"
)

// Encode writes v as a JSON response with the given status code.
func Encode(l *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
	}
}

// Error writes a JSON error response.
func Error(l *slog.Logger, w http.ResponseWriter, status int, message string, err error) {
	if err == nil {
		Encode(l, w, status, NewMessage(message))
		return
	}
	Encode(l, w, status, NewMessageError(message, err))
}
