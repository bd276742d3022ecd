package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/catalog"
	"github.com/rpupo63/inventory-catalog/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type inventoryHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *catalog.Service
}

func newInventoryHandler(service *catalog.Service) inventoryHandler {
	logger := log.With().Str("handlerName", "inventoryHandler").Logger()

	return inventoryHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// filterFromQuery reads ?q=&categoryId=&tag=
func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	query := r.URL.Query()
	filter := catalog.Filter{
		Query: query.Get("q"),
		Tag:   query.Get("tag"),
	}
	if raw := query.Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errs.NewInvalidFieldError("categoryId", "must be a UUID")
		}
		filter.CategoryID = &id
	}
	return filter, nil
}

// listInventories returns inventories matching the query filter, newest first
// @Router /inventories [get]
func (h inventoryHandler) listInventories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		inventories, err := h.service.ListInventories(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"inventories": inventories,
			"total":       len(inventories),
		})
	}
}

// getInventory returns an inventory with its schema, items, tags and averages
// @Router /inventories/{inventoryID} [get]
func (h inventoryHandler) getInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := pathUUID(r, "inventoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		details, err := h.service.GetInventory(r.Context(), identityFromCtx(r.Context()), inventoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, details)
	}
}

// createInventory creates an inventory owned by the caller
// @Router /inventories [post]
func (h inventoryHandler) createInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in catalog.CreateInventoryInput
		if err := decodeJSON(w, r, "inventory", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		inventory, err := h.service.CreateInventory(r.Context(), identityFromCtx(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, catalog.InventorySummary{
			Inventory: *inventory,
			Tags:      inventory.Tags(),
		})
	}
}

// updateInventory changes the title and category
// @Router /inventories/{inventoryID} [put]
func (h inventoryHandler) updateInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := pathUUID(r, "inventoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in catalog.UpdateInventoryInput
		if err := decodeJSON(w, r, "inventory", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		inventory, err := h.service.UpdateInventory(r.Context(), identityFromCtx(r.Context()), inventoryID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, catalog.InventorySummary{
			Inventory: *inventory,
			Tags:      inventory.Tags(),
		})
	}
}

// deleteInventory removes an inventory and everything it owns
// @Router /inventories/{inventoryID} [delete]
func (h inventoryHandler) deleteInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := pathUUID(r, "inventoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		report, err := h.service.DeleteInventory(r.Context(), identityFromCtx(r.Context()), inventoryID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, deleteResponse{Status: "success", Deleted: report})
	}
}

// addField appends a field to the schema
// @Router /inventories/{inventoryID}/fields [post]
func (h inventoryHandler) addField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inventoryID, err := pathUUID(r, "inventoryID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in catalog.FieldInput
		if err := decodeJSON(w, r, "field", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		field, err := h.service.AddField(r.Context(), identityFromCtx(r.Context()), inventoryID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, field)
	}
}

// renameField changes the name of a field
// @Router /fields/{fieldID} [patch]
func (h inventoryHandler) renameField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fieldID, err := pathUUID(r, "fieldID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var body renameFieldRequest
		if err := decodeJSON(w, r, "field", &body); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		field, err := h.service.RenameField(r.Context(), identityFromCtx(r.Context()), fieldID, body.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, field)
	}
}
