package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"rifa/application"
	"rifa/domain/entities"
	"rifa/infrastructure/export"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps use case errors to status codes
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrEventNotFound),
		errors.Is(err, entities.ErrPageOutOfRange),
		errors.Is(err, application.ErrSessionNotFound),
		errors.Is(err, export.ErrNothingToExport):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrInvalidEvent),
		errors.Is(err, entities.ErrInvalidRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.WithError(err).Error("Unhandled API error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
