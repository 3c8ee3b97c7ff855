// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package speccify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// ProblemDetail represents an RFC 9457 Problem Details error response.
//
// Embed this struct in your custom error types to add extension fields:
//
//	type ValidationError struct {
//	    speccify.ProblemDetail
//	    InvalidFields []string `json:"invalid_fields"`
//	}
//
// Reference: https://www.rfc-editor.org/rfc/rfc9457
type ProblemDetail struct {
	// Type is a URI reference that identifies the problem type.
	// Defaults to "about:blank" when the problem has no specific type.
	Type string `json:"type"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence
	// of the problem.
	Detail string `json:"detail,omitempty"`

	// Instance is a URI reference that identifies the specific occurrence
	// of the problem.
	Instance string `json:"instance,omitempty"`
}

// Error implements the error interface.
// Returns the Detail field if present, otherwise returns the Title.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

type problemDetailMarker interface {
	statusCode() int
}

func (p ProblemDetail) statusCode() int {
	return p.Status
}

// ProblemDetailsErrorHandler is an [ErrorHandler] that returns RFC 9457
// Problem Details responses.
//
// It provides three-tier error detection:
//  1. Errors embedding [ProblemDetail] - marshaled directly with all
//     extension fields
//  2. Errors implementing [HttpResponseWriter] - converted to standard
//     Problem Details
//  3. Generic errors - converted to 500 Internal Server Error
//
// All errors are logged before returning the response. Every response
// carries a unique urn:uuid instance so an occurrence can be correlated
// with its log entry.
type ProblemDetailsErrorHandler struct {
	config ProblemDetailsConfig
	log    *slog.Logger
}

// ProblemDetailsConfig configures the Problem Details error handler.
type ProblemDetailsConfig struct {
	// DefaultType is the default type URI for errors that don't specify
	// one. Defaults to "about:blank" per RFC 9457.
	//
	// For custom problem types, provide a base URI like:
	// "https://api.example.com/problems/"
	DefaultType string

	// IncludeDetails controls whether error details are included in
	// responses. When true, the Detail field will contain the error's
	// Error() message.
	//
	// Set to false in production to avoid leaking internal error
	// messages. Defaults to true if nil.
	IncludeDetails *bool

	// Logger is used to log errors before returning Problem Details.
	// If nil, uses Logger("speccify").
	Logger *slog.Logger
}

// NewProblemDetailsErrorHandler creates a new Problem Details
// error handler.
//
// Example:
//
//	handler := speccify.NewProblemDetailsErrorHandler(speccify.ProblemDetailsConfig{
//	    DefaultType: "https://api.example.com/problems/",
//	    IncludeDetails: false,
//	})
//
//	op := speccify.NewOperation(speccify.HandleBody(h), speccify.OnError(handler))
func NewProblemDetailsErrorHandler(config ProblemDetailsConfig) *ProblemDetailsErrorHandler {
	if config.DefaultType == "" {
		config.DefaultType = "about:blank"
	}
	if config.Logger == nil {
		config.Logger = Logger("speccify")
	}
	if config.IncludeDetails == nil {
		includeDetails := true
		config.IncludeDetails = &includeDetails
	}

	return &ProblemDetailsErrorHandler{
		config: config,
		log:    config.Logger,
	}
}

// OnError implements the [ErrorHandler] interface.
func (h *ProblemDetailsErrorHandler) OnError(ctx context.Context, w http.ResponseWriter, err error) {
	instance := "urn:uuid:" + uuid.NewString()

	h.log.ErrorContext(
		ctx,
		"sending error response",
		slog.String("problem.instance", instance),
		slog.Any("error", err),
	)

	if pd, ok := err.(problemDetailMarker); ok {
		h.writeProblem(ctx, w, pd.statusCode(), err)
		return
	}

	if _, ok := err.(HttpResponseWriter); ok {
		detail := h.convertFrameworkError(err)
		detail.Instance = instance
		h.writeProblem(ctx, w, detail.Status, detail)
		return
	}

	detail := ProblemDetail{
		Type:     h.config.DefaultType,
		Title:    http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Detail:   h.detailMessage(err),
		Instance: instance,
	}
	h.writeProblem(ctx, w, detail.Status, detail)
}

func (h *ProblemDetailsErrorHandler) writeProblem(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err == nil {
		return
	}
	h.log.ErrorContext(ctx, "failed to encode problem details", slog.Any("error", err))
}

// convertFrameworkError maps binding errors onto problem types by
// unwrapping the cause chain.
func (h *ProblemDetailsErrorHandler) convertFrameworkError(err error) ProblemDetail {
	var badRequest BadRequestError
	if !errors.As(err, &badRequest) {
		return ProblemDetail{
			Type:   h.typeURI("internal-error"),
			Title:  http.StatusText(http.StatusInternalServerError),
			Status: http.StatusInternalServerError,
			Detail: h.detailMessage(err),
		}
	}

	typeURI := h.typeURI("bad-request")
	title := http.StatusText(http.StatusBadRequest)

	var missingField MissingRequiredFieldError
	if errors.As(badRequest.Cause, &missingField) {
		typeURI = h.typeURI("missing-required-field")
		title = "Missing Required Field"
	}

	var invalidField InvalidFieldValueError
	if errors.As(badRequest.Cause, &invalidField) {
		typeURI = h.typeURI("invalid-field-value")
		title = "Invalid Field Value"
	}

	var invalidContentType InvalidContentTypeError
	if errors.As(badRequest.Cause, &invalidContentType) {
		typeURI = h.typeURI("invalid-content-type")
		title = "Invalid Content Type"
	}

	var invalidPathParam InvalidPathParamError
	if errors.As(badRequest.Cause, &invalidPathParam) {
		typeURI = h.typeURI("invalid-path-param")
		title = "Invalid Path Parameter"
	}

	return ProblemDetail{
		Type:   typeURI,
		Title:  title,
		Status: http.StatusBadRequest,
		Detail: h.detailMessage(err),
	}
}

// typeURI constructs a type URI from a problem type identifier.
// If DefaultType is "about:blank", returns "about:blank" for all types.
func (h *ProblemDetailsErrorHandler) typeURI(problemType string) string {
	if h.config.DefaultType == "about:blank" {
		return "about:blank"
	}
	return h.config.DefaultType + problemType
}

// detailMessage returns the error detail message based on configuration.
// Returns an empty string if IncludeDetails is false.
func (h *ProblemDetailsErrorHandler) detailMessage(err error) string {
	if h.config.IncludeDetails != nil && !*h.config.IncludeDetails {
		return ""
	}
	return err.Error()
}
