package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/servis/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonErrorDetails writes a JSON error response that also carries the cause.
func jsonErrorDetails(w http.ResponseWriter, status int, message, details string) {
	jsonResponse(w, status, map[string]string{"error": message, "details": details})
}

// storeError answers a failed store call. Validation problems become 400 and
// everything else 500 with the cause in details.
func storeError(w http.ResponseWriter, err error, message string) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		jsonError(w, http.StatusBadRequest, verr.Error())
		return
	}
	slog.Error(message, "error", err)
	jsonErrorDetails(w, http.StatusInternalServerError, message, err.Error())
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
