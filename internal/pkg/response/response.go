package response

import (
	"encoding/json"
	"net/http"

	"github.com/futig/resomate/internal/entity"
)

// JSON writes data as a JSON body with status
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// headers are already sent, nothing useful can be done on failure
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes an ErrorResponse carrying the status text and message
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
