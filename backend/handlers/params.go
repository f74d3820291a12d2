package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/middleware"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// parseID reads a positive integer path parameter
func parseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pathID reads the named path parameter, writing "Invalid <resource> ID" on failure
func pathID(w http.ResponseWriter, r *http.Request, name, resource string) (int64, bool) {
	id, ok := parseID(r, name)
	if !ok {
		_ = utils.WriteError(w, http.StatusBadRequest, "Invalid "+resource+" ID", nil)
	}
	return id, ok
}

// principal returns the authenticated caller, or nil for anonymous requests
func principal(r *http.Request) *policy.Principal {
	return middleware.GetPrincipalFromContext(r.Context())
}

// decodeAndValidate decodes the JSON body into dst and validates it. On failure
// the 400 response has already been written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *zap.Logger) bool {
	if err := utils.DecodeJSON(w, r, dst); err != nil {
		HandleValidationError(w, err, logger)
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		HandleValidationError(w, err, logger)
		return false
	}
	return true
}

func writeResponse(w http.ResponseWriter, logger *zap.Logger, err error) {
	if err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}
