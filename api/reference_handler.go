package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/inventory-catalog/catalog"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type referenceHandler struct {
	responder   Responder
	logger      zerolog.Logger
	service     *catalog.Service
	startupTime time.Time
}

func newReferenceHandler(service *catalog.Service, startupTime time.Time) referenceHandler {
	logger := log.With().Str("handlerName", "referenceHandler").Logger()

	return referenceHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		service:     service,
		startupTime: startupTime,
	}
}

// @Router /healthz [get]
func (h referenceHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]interface{}{
			"status": "ok",
			"uptime": time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}

// notFound answers unknown routes with the usual error body
func (h referenceHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteError(w, errs.NewNotFoundError("no route for "+r.Method+" "+r.URL.Path))
	}
}

// @Router /categories [get]
func (h referenceHandler) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.service.ListCategories(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, categories)
	}
}

// @Router /tags [get]
func (h referenceHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.service.ListTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

// browse returns the filtered listing with every category and tag
// @Router /browse [get]
func (h referenceHandler) browse() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.service.Browse(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}
