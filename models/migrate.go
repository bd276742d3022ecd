package models

import (
	"fmt"

	"gorm.io/gorm"
)

// All lists every persisted model in dependency order
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Tag{},
		&Inventory{},
		&InventoryTag{},
		&Field{},
		&Item{},
		&ItemValue{},
	}
}

// AutoMigrate creates or updates the tables, indexes and constraints for every model
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
