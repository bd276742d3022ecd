package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public read routes and the authenticated mutation routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.NotFound(handlers.referenceHandler.notFound())
	r.Get("/healthz", handlers.referenceHandler.health())

	// Reads: anonymous allowed, a valid token only affects canEdit
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.identify)

		r.Get("/inventories", handlers.inventoryHandler.listInventories())
		r.Get("/inventories/{inventoryID}", handlers.inventoryHandler.getInventory())
		r.Get("/browse", handlers.referenceHandler.browse())
		r.Get("/categories", handlers.referenceHandler.listCategories())
		r.Get("/tags", handlers.referenceHandler.listTags())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		// Inventory and schema endpoints, owner or Admin only
		r.Post("/inventories", handlers.inventoryHandler.createInventory())
		r.Put("/inventories/{inventoryID}", handlers.inventoryHandler.updateInventory())
		r.Delete("/inventories/{inventoryID}", handlers.inventoryHandler.deleteInventory())
		r.Post("/inventories/{inventoryID}/fields", handlers.inventoryHandler.addField())
		r.Patch("/fields/{fieldID}", handlers.inventoryHandler.renameField())

		// Item endpoints, any authenticated user
		r.Post("/inventories/{inventoryID}/items", handlers.itemHandler.createItem())
		r.Put("/items/{itemID}", handlers.itemHandler.updateItem())
		r.Delete("/items/{itemID}", handlers.itemHandler.deleteItem())
	})
}
