package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/getveil/veil/pkg/store"
)

var validate = validator.New()

// APIError is the JSON error response body.
type APIError struct {
	Message string `json:"message"`
}

// encodeJSON encodes data into JSON and writes it to the response writer.
func encodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a JSON request body into the provided data struct and
// validates it against its struct tags.
func decodeJSON(r *http.Request, data interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return err
	}
	return validate.Struct(data)
}

// renderError writes err as an APIError body. A malformed mapping key is
// the caller's fault and downgrades the status to 400.
func renderError(w http.ResponseWriter, err error, status int) {
	if errors.Is(err, store.ErrInvalidKey) {
		status = http.StatusBadRequest
	}
	if status != http.StatusNotFound {
		// Don't log not found errors
		log.Error(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIError{Message: err.Error()})
}
