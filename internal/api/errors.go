package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/redact"
	"github.com/taskboard/taskboard-api/internal/service"
)

// HandleServiceError serializes a service error into the error envelope.
// AppErrors map one-to-one onto status and code; anything unclassified is
// logged with its trace ID and surfaced as a generic 500 so internals
// never leak to clients.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := service.AsAppError(err); ok {
		shared.RespondWithError(w, r, appErr.Status, string(appErr.Code), appErr.Message, nil)
		return
	}

	slog.Error("unhandled service error",
		"error", redact.Error(err),
		"trace_id", shared.GetTraceID(r.Context()),
		"path", r.URL.Path,
		"method", r.Method)
	shared.RespondWithError(w, r,
		http.StatusInternalServerError,
		string(service.CodeInternal),
		"An unexpected error occurred.",
		nil)
}

// RespondWithValidationError serializes a request validation failure as
// 422 VALIDATION_ERROR with per-field details. Validator errors become a
// field→reason map; anything else gets a generic message.
func RespondWithValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details[fieldErr.Field()] = validationTagMessage(fieldErr.Tag())
		}
		shared.RespondWithError(w, r,
			http.StatusUnprocessableEntity,
			string(service.CodeValidation),
			"Validation failed.",
			details)
		return
	}

	shared.RespondWithError(w, r,
		http.StatusUnprocessableEntity,
		string(service.CodeValidation),
		"Validation failed.",
		nil)
}

// respondBadRequestBody covers unparseable JSON bodies.
func respondBadRequestBody(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r,
		http.StatusBadRequest,
		string(service.CodeValidation),
		"Invalid request body.",
		nil)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short"
	case "max":
		return "is too long"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "has an invalid value"
	default:
		return "is invalid"
	}
}
