package controllers

import (
	"cmp"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"dentalrcm/app/models"
	"dentalrcm/app/repositories"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error   string              `json:"error"`
	Details []models.FieldError `json:"details,omitempty"`
}

// responder holds the response helpers shared by every controller, plus the
// messages a controller reports for missing and conflicting records. Empty
// messages fall back to generic ones.
type responder struct {
	log      logrus.FieldLogger
	notFound string
	conflict string
}

func (rs responder) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.log.WithError(err).Warn("write response")
	}
}

func (rs responder) sendError(w http.ResponseWriter, status int, message string) {
	rs.sendJSON(w, status, errorResponse{Error: message})
}

// fail maps err onto a status code. Causes of 500s are logged and never sent
// to the client.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		rs.sendJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Details: ve.Fields})
	case errors.As(err, &tooLarge):
		rs.sendError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, repositories.ErrNotFound):
		rs.sendError(w, http.StatusNotFound, cmp.Or(rs.notFound, "not found"))
	case errors.Is(err, repositories.ErrConflict):
		rs.sendError(w, http.StatusConflict, cmp.Or(rs.conflict, "record already exists"))
	default:
		rs.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		rs.sendError(w, http.StatusInternalServerError, "internal server error")
	}
}

// readBody reads the request body. The router caps its size, so an oversized
// body surfaces here as *http.MaxBytesError.
func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(r.Body)
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
