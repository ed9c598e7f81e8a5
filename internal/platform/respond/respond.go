// Copyright (c) 2026 Kanshi. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// Successful responses are written as the bare resource (the front-end reads
// the aggregated shape directly). Every error follows one envelope:
//
//	{"error": "<code-or-message>", "message": "...", "details": [...]}
//
// Not-found errors carry their message in "error"; every other error carries
// its machine-readable code there.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/kanshi/internal/platform/apperr"
	"github.com/taibuivan/kanshi/internal/platform/ctxutil"
)

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with the payload as the body.
func OK(writer http.ResponseWriter, payload any) {
	JSON(writer, http.StatusOK, payload)
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, Envelope(appError))
}

// Envelope builds the wire representation of an [apperr.AppError].
func Envelope(appError *apperr.AppError) ErrorEnvelope {
	if appError.Code == apperr.CodeNotFound {
		return ErrorEnvelope{Error: appError.Message}
	}
	return ErrorEnvelope{
		Error:   appError.Code,
		Message: appError.Message,
		Details: appError.Details,
	}
}

// RouteNotFound is the router fallback for unmatched paths.
func RouteNotFound(writer http.ResponseWriter, _ *http.Request) {
	JSON(writer, http.StatusNotFound, ErrorEnvelope{Error: apperr.CodeNotFound})
}

// MethodNotAllowed is the router fallback for known paths with the wrong verb.
func MethodNotAllowed(writer http.ResponseWriter, request *http.Request) {
	Error(writer, request, apperr.MethodNotAllowed())
}
