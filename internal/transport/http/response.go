package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "storefront-gateway/internal/common/errors"
)

type errorBody struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP status codes. Unknown errors
// are masked as internal failures so raw internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindBusiness, apperrors.KindValidation:
		status = http.StatusUnprocessableEntity
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindAuth:
		status = http.StatusUnauthorized
	case apperrors.KindConfig:
		status = http.StatusServiceUnavailable
	case apperrors.KindTransient:
		status = http.StatusBadGateway
	}

	var body errorBody
	body.Error.Kind = string(kind)

	var se *apperrors.StorefrontError
	if errors.As(err, &se) {
		body.Error.Message = se.Message
	} else {
		body.Error.Kind = "INTERNAL"
		body.Error.Message = "Something went wrong on our end. We are fixing it."
	}

	writeJSON(w, status, body)
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
