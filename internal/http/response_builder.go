// Package http serves the farm records, their derived views and the
// dashboard as a JSON API.
//
// This file holds the fluent response builder and the single mapping from
// domain errors to status codes.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"farmhub/internal/core"
	"farmhub/internal/loader"
	"farmhub/internal/log"
	"farmhub/internal/middleware/trace"
)

// ResponseBuilder provides a fluent API for JSON responses.
type ResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    any
}

// NewResponse creates a builder with a 200 status and no body.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// ETag sets the entity tag to the quoted record revision.
func (b *ResponseBuilder) ETag(revision int64) *ResponseBuilder {
	return b.Header("ETag", strconv.Quote(strconv.FormatInt(revision, 10)))
}

func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.payload = v
	return b
}

// Write sends the response. A nil payload writes only the status line.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	body, err := json.Marshal(b.payload)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(body, '\n'))
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error           string            `json:"error"`
	Fields          map[string]string `json:"fields,omitempty"`
	CurrentRevision *int64            `json:"currentRevision,omitempty"`
	Dependents      map[string]int    `json:"dependents,omitempty"`
	Retryable       bool              `json:"retryable,omitempty"`
	// RequestID is set on server-side failures so they can be found in the logs.
	RequestID string `json:"requestId,omitempty"`
}

func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(ErrorBody{Error: message})
}

func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// badInput marks request parsing failures so writeError answers 400.
type badInput struct{ msg string }

func (e badInput) Error() string { return e.msg }

func errBadInput(msg string) error { return badInput{msg: msg} }

// errorResponse maps an error to its response. Unknown errors become a
// generic 500 so internals never reach the client.
func errorResponse(err error) *ResponseBuilder {
	var (
		bad        badInput
		validation *core.ValidationError
		conflict   *core.ConflictError
		referenced *core.ReferencedError
		notFound   *core.NotFoundError
	)
	switch {
	case errors.As(err, &bad):
		return BadRequestError(bad.msg)
	case errors.As(err, &validation):
		return NewResponse().Status(http.StatusUnprocessableEntity).
			JSON(ErrorBody{Error: "validation failed", Fields: validation.Fields})
	case errors.As(err, &conflict):
		current := conflict.Current
		return NewResponse().Status(http.StatusConflict).
			ETag(current).
			JSON(ErrorBody{Error: conflict.Error(), CurrentRevision: &current})
	case errors.As(err, &referenced):
		return NewResponse().Status(http.StatusConflict).
			JSON(ErrorBody{Error: referenced.Error(), Dependents: referenced.Dependents})
	case errors.As(err, &notFound):
		return NotFoundError(notFound.Error())
	case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrInvalidDate):
		return NewResponse().Status(http.StatusUnprocessableEntity).JSON(ErrorBody{Error: err.Error()})
	case errors.Is(err, loader.ErrUnavailable):
		return NewResponse().Status(http.StatusServiceUnavailable).
			Header("Retry-After", "1").
			JSON(ErrorBody{Error: "records are temporarily unavailable", Retryable: true})
	default:
		return InternalServerError("internal error")
	}
}

// writeError logs server-side failures and writes the mapped response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse(err)
	if resp.statusCode >= 500 {
		ctx := r.Context()
		errorType := log.ErrorTypeInternal
		if resp.statusCode == http.StatusServiceUnavailable {
			errorType = log.ErrorTypeUnavailable
		}
		fields := log.NewFields().
			WithErrorType(errorType).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent(), r.Referer())
		log.NewStructuredLogger(log.FromContext(ctx)).
			LogError(ctx, "Request failed", err, log.ComponentHTTP, operationFor(r.Method), fields)

		if body, ok := resp.payload.(ErrorBody); ok {
			body.RequestID = trace.GetRequestID(ctx)
			resp.payload = body
		}
	}
	resp.Write(w)
}

func operationFor(method string) string {
	switch method {
	case http.MethodPost:
		return log.OpCreate
	case http.MethodPatch, http.MethodPut:
		return log.OpUpdate
	case http.MethodDelete:
		return log.OpDelete
	}
	return log.OpRead
}

func writeJSON(w http.ResponseWriter, v any) {
	NewResponse().JSON(v).Write(w)
}
