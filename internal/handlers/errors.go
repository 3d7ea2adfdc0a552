package handlers

import (
	"net/http"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/service"

	"go.uber.org/zap"
)

const (
	codeBadRequest       = "BAD_REQUEST"
	codeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	codeInternal         = "INTERNAL_ERROR"
	codeRouteNotFound    = "ROUTE_NOT_FOUND"
	codeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// handleServiceError answers with the business error verbatim, or a
// generic 500 for anything else. The cause is only logged.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	requestID := middleware.GetRequestID(r.Context())

	if businessErr, ok := service.AsBusinessError(err); ok {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode),
		}
		if statusCode >= http.StatusInternalServerError {
			logger.Error("HTTP: business error", businessErr.Err, fields...)
		} else {
			logger.Warn("HTTP: business error", fields...)
		}

		responseWithJSON(w, statusCode,
			toPayload("success", false),
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return
	}

	logger.Error("HTTP: service error", err,
		zap.String("request_id", requestID),
		zap.String("operation", operation))
	responseWithError(w, http.StatusInternalServerError, codeInternal, msgInternal)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeConflict:
		return http.StatusConflict
	case service.CodeUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	responseWithError(w, http.StatusNotFound, codeRouteNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	responseWithError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "Method not allowed")
}
