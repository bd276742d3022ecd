package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rs/zerolog"
)

// maxBodySize caps request bodies
const maxBodySize = 1 << 20

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONWithStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONWithStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONWithStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:  "Internal Server Error",
			Status: "error",
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}

	// cause chains carry driver and parser text; they stay in the log
	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Str("error", apiErr.GetFullError()).Msg("request failed")
	} else if apiErr.Cause != nil {
		r.logger.Debug().Str("error", apiErr.GetFullError()).Int("status", apiErr.StatusCode).Msg("request rejected")
	}

	r.WriteJSONWithStatus(w, apiErr.StatusCode, response)
}

// decodeJSON reads a JSON body into dst, rejecting unknown fields and trailing data
func decodeJSON(w http.ResponseWriter, req *http.Request, payload string, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errs.NewMaxBodySizeExceededError(maxBytesErr.Limit)
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
			return errs.NewInvalidJSONError(err)
		}
		return errs.NewMalformedPayloadError(payload, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewMalformedPayloadError(payload, errors.New("body must contain a single JSON object"))
	}
	return nil
}

// pathUUID parses a chi URL parameter as a UUID
func pathUUID(req *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(req, param)
	if raw == "" {
		return uuid.Nil, errs.NewMissingRequiredFieldError(param)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError(param, "must be a UUID")
	}
	return id, nil
}
