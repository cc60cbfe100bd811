package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/workbridge/invoicing-api/internal/models"
)

const maxJSONBytes = 1 << 20 // 1MB

// ReadJSON decodes a single JSON value from the request body
func ReadJSON(w http.ResponseWriter, r *http.Request, data interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(data); err != nil {
		return err
	}

	// body must contain exactly one JSON value
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must only have a single JSON value")
	}
	return nil
}

// WriteJSON writes data as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	return err
}

// ErrorJSON writes an error response; status defaults to 400
func ErrorJSON(w http.ResponseWriter, err error, status ...int) error {
	statusCode := http.StatusBadRequest
	if len(status) > 0 {
		statusCode = status[0]
	}

	payload := models.Response{
		Error:   true,
		Status:  "failed",
		Message: err.Error(),
	}
	return WriteJSON(w, statusCode, payload)
}

// BadRequest sends a 400 with the error message
func BadRequest(w http.ResponseWriter, err error) error {
	return ErrorJSON(w, err, http.StatusBadRequest)
}

// NotFound sends a 404 with the error message
func NotFound(w http.ResponseWriter, err error) error {
	return ErrorJSON(w, err, http.StatusNotFound)
}

// Conflict sends a 409 with the error message
func Conflict(w http.ResponseWriter, err error) error {
	return ErrorJSON(w, err, http.StatusConflict)
}

// Unprocessable sends a 422 with the error message
func Unprocessable(w http.ResponseWriter, err error) error {
	return ErrorJSON(w, err, http.StatusUnprocessableEntity)
}

// ServerError sends a 500 with the error message
func ServerError(w http.ResponseWriter, err error) error {
	return ErrorJSON(w, err, http.StatusInternalServerError)
}
