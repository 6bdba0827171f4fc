package handlers

import (
	"errors"
	"net/http"

	"taskboard/internal/app"
	"taskboard/internal/client"
	"taskboard/internal/logger"
	"taskboard/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}
	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: business error",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeResolution:
		return http.StatusUnprocessableEntity
	case service.CodeUpdate:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// handleError writes the response for any error coming out of the
// dashboard: business errors keep their code, backend errors are relayed
// with the backend's message.
func handleError(w http.ResponseWriter, err error, fallback string) {
	if handleBusinessError(w, err) {
		return
	}

	status := http.StatusBadGateway
	var apiErr *client.APIError
	switch {
	case errors.Is(err, app.ErrNotLoggedIn):
		status = http.StatusUnauthorized
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		status = apiErr.StatusCode
	}

	logger.Error("HTTP: dashboard error", err, zap.Int("http_status", status))
	responseWithError(w, status, client.Message(err, fallback))
}
