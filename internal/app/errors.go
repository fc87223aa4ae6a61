package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/bioskopid/counter-gateway/internal/upstream"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	appvalidator "github.com/bioskopid/counter-gateway/internal/validator"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrUpstreamUnreachble = "The ticketing service is unreachable, please try again"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable,omitempty"`
	RequestId string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validation_errors"`
	RequestId        string            `json:"request_id"`
	Timestamp        time.Time         `json:"timestamp"`
}

func (app *application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.retryableErrorResponse(w, r, status, message, false)
}

func (app *application) retryableErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string, retryable bool) {
	resp := ErrorResponse{
		Message:   message,
		Retryable: retryable,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *application) notFoundResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusNotFound, err.Error())
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) editConflictResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *application) unprocessableEntityResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	fieldErrors := make([]ValidationError, len(validationErrors))
	for i, fieldError := range validationErrors {
		fieldErrors[i] = ValidationError{
			Field: fieldError.Field(),
			Issue: appvalidator.ValidationMessage(fieldError),
		}
	}

	resp := ValidationErrorResponse{
		Message:          "Validation failed",
		ValidationErrors: fieldErrors,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
	}

	writeErr := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if writeErr != nil {
		app.logError(r, writeErr)
		w.WriteHeader(500)
	}
}

// sessionExpiredResponse handles every upstream 401 the same way: clear the
// stored token so the stale credential is never retried, then tell the
// caller to re-authenticate.
func (app *application) sessionExpiredResponse(w http.ResponseWriter, r *http.Request) {
	app.clearUpstreamToken(r)
	app.errorResponse(w, r, http.StatusUnauthorized, upstream.ErrSessionExpired.Error())
}

// upstreamErrorResponse classifies a backend call failure: transport errors
// are retryable, 401 means re-login, and domain errors carry the backend's
// message verbatim rather than a generic stand-in.
func (app *application) upstreamErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *upstream.DomainError

	switch {
	case errors.Is(err, upstream.ErrSessionExpired):
		app.sessionExpiredResponse(w, r)
	case errors.As(err, &domainErr):
		status := domainErr.StatusCode
		if status < 400 {
			status = http.StatusUnprocessableEntity
		}
		app.errorResponse(w, r, status, domainErr.Message)
	case upstream.IsTransport(err):
		app.logError(r, err)
		app.retryableErrorResponse(w, r, http.StatusBadGateway, ErrUpstreamUnreachble, true)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
