package server

import (
	"encoding/json"
	"net/http"

	"github.com/graphkit/marquee/pkg/errors"
)

// errorResponse is the JSON shape of every error the API returns.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error code to an HTTP status and writes the standard
// error body. Unknown errors become opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = errors.UserMessage(err)
	if code == "" {
		resp.Error.Code = string(errors.ErrCodeInternal)
		resp.Error.Message = "internal error"
	}

	writeJSON(w, statusFor(code), resp)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidGraphID,
		errors.ErrCodeInvalidRect,
		errors.ErrCodeInvalidOptions:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGraphNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
