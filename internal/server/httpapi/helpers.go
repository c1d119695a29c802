package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkov/credvault/internal/common"
)

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps vault error kinds to HTTP statuses. Responses carry a
// fixed message per status; internal detail (and anything that could hint
// at key or plaintext material) stays out of the body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrUserNotInOrganization),
		errors.Is(err, common.ErrPermissionDenied):
		writeJSONStatus(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, common.ErrCredentialNotFound):
		writeJSONStatus(w, http.StatusNotFound, errorResponse{Error: "credential not found"})
	case errors.Is(err, common.ErrSerialization):
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "invalid credential data"})
	case errors.Is(err, common.ErrInvalidName):
		writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: "invalid credential name"})
	default:
		writeJSONStatus(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSONStatus(w, http.StatusBadRequest, errorResponse{Error: msg})
}
