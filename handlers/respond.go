package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"burgerlog/media"
	"burgerlog/models"
	"burgerlog/store"
)

const somethingWentWrong = "Something went wrong"

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Index  *int              `json:"index,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and a JSON body. Errors the client cannot
// act on are logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		requestLogger(r, logger).Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, errorBody) {
	var (
		verr *models.ValidationError
		uerr *media.UploadError
		ierr *store.ImportError
		berr *badRequest
	)
	switch {
	case errors.As(err, &berr):
		return http.StatusBadRequest, errorBody{Error: berr.Error()}
	case errors.As(err, &ierr):
		body := errorBody{Error: ierr.Error()}
		var inner *models.ValidationError
		if errors.As(ierr.Err, &inner) {
			body.Fields = inner.Fields
		}
		if ierr.Index >= 0 {
			idx := ierr.Index
			body.Index = &idx
		}
		return http.StatusBadRequest, body
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verr.Fields}
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: err.Error()}
	case errors.As(err, &uerr):
		switch uerr.Reason {
		case media.ReasonTooLarge:
			return http.StatusRequestEntityTooLarge, errorBody{Error: string(uerr.Reason)}
		case media.ReasonStorage:
			return http.StatusInternalServerError, errorBody{Error: "could not store image"}
		default:
			return http.StatusBadRequest, errorBody{Error: string(uerr.Reason)}
		}
	}
	return http.StatusInternalServerError, errorBody{Error: somethingWentWrong}
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON reads exactly one JSON value from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return &badRequest{err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &badRequest{errTrailingData}
	}
	return nil
}

type badRequest struct {
	err error
}

func (e *badRequest) Error() string {
	return "invalid request body: " + e.err.Error()
}

func (e *badRequest) Unwrap() error {
	return e.err
}
