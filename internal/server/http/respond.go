package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/better-analytics/dashboard/internal/analytics"
	"github.com/better-analytics/dashboard/internal/auth/gate"
	"github.com/better-analytics/dashboard/internal/entity"
	"github.com/better-analytics/dashboard/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"code": code, "message": msg})
}

// writeFailure maps the error taxonomy onto status codes. Forbidden never
// says whether the dashboard exists; data integrity failures are server
// errors because the stored data, not the request, is wrong.
func writeFailure(w http.ResponseWriter, err error) {
	var integrity *analytics.DataIntegrityError
	var schemaErr *entity.SchemaError
	switch {
	case errors.Is(err, gate.ErrUnauthenticated):
		writeErr(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, gate.ErrForbidden):
		writeErr(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, analytics.ErrInvalidTimeRange):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, users.ErrEmailTaken):
		writeErr(w, http.StatusConflict, err.Error())
	case errors.As(err, &integrity):
		slog.Error("data integrity failure", "err", err)
		writeErr(w, http.StatusInternalServerError, "data integrity failure")
	case errors.As(err, &schemaErr):
		writeErr(w, http.StatusBadRequest, schemaErr.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	default:
		slog.Error("request failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
