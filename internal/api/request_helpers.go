package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/service"
)

// getCaller extracts the authenticated caller placed in the context by
// the authentication middleware.
func getCaller(r *http.Request) (service.Caller, bool) {
	caller, ok := r.Context().Value(shared.CallerContextKey).(service.Caller)
	if !ok || caller.ID == uuid.Nil {
		return service.Caller{}, false
	}
	return caller, true
}

// requireCaller is getCaller plus the 401 response when the middleware
// never ran. Routes behind Authenticate should never hit that branch.
func requireCaller(w http.ResponseWriter, r *http.Request) (service.Caller, bool) {
	caller, ok := getCaller(r)
	if !ok {
		shared.RespondWithError(w, r,
			http.StatusUnauthorized,
			string(service.CodeAuthRequired),
			"Authentication required.",
			nil)
		return service.Caller{}, false
	}
	return caller, true
}

// getPathUUID parses the named chi URL parameter as a UUID. A malformed
// or missing parameter yields a written 422 and ok=false.
func getPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, paramName)
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r,
			http.StatusUnprocessableEntity,
			string(service.CodeValidation),
			"Invalid "+paramName+" parameter.",
			nil)
		return uuid.Nil, false
	}
	return id, true
}
