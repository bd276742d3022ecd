package api

import (
	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/catalog"
	"github.com/rpupo63/inventory-catalog/database"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	inventoryHandler inventoryHandler
	itemHandler      itemHandler
	referenceHandler referenceHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

type renameFieldRequest struct {
	Name string `json:"name"`
}

// itemRequest carries raw values keyed by field id. A null value stores nothing.
type itemRequest struct {
	Values map[uuid.UUID]*string `json:"values"`
}

func (r itemRequest) values() catalog.ItemValues {
	return catalog.ItemValues(r.Values)
}

type deleteResponse struct {
	Status  string                `json:"status"`
	Deleted database.DeleteReport `json:"deleted"`
}
