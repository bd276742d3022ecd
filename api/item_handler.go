package api

import (
	"net/http"

	"github.com/rpupo63/inventory-catalog/catalog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type itemHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *catalog.Service
}

func newItemHandler(service *catalog.Service) itemHandler {
	logger := log.With().Str("handlerName", "itemHandler").Logger()

	return itemHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// createItem adds an item to an inventory
// @Router /inventories/{inventoryID}/items [post]
func (h itemHandler) createItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := pathUUID(r, "inventoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body itemRequest
		if err := decodeJSON(w, r, "item", &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.service.CreateItem(r.Context(), identityFromCtx(r.Context()), inventoryID, body.values())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, item)
	}
}

// updateItem rewrites the values of an item
// @Router /items/{itemID} [put]
func (h itemHandler) updateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body itemRequest
		if err := decodeJSON(w, r, "item", &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item, err := h.service.UpdateItem(r.Context(), identityFromCtx(r.Context()), itemID, body.values())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// deleteItem removes an item and its values
// @Router /items/{itemID} [delete]
func (h itemHandler) deleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		report, err := h.service.DeleteItem(r.Context(), identityFromCtx(r.Context()), itemID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, deleteResponse{Status: "success", Deleted: report})
	}
}
