package api

import (
	"time"

	"github.com/rpupo63/inventory-catalog/catalog"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(service *catalog.Service, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		inventoryHandler: newInventoryHandler(service),
		itemHandler:      newItemHandler(service),
		referenceHandler: newReferenceHandler(service, startupTime),
	}
}
