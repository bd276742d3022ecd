package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is fixed reference data an inventory may be filed under
type Category struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:varchar(80);not null;uniqueIndex:idx_category_name"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DefaultCategories are seeded on first start
var DefaultCategories = []string{"General", "Furniture", "Electronics", "Books", "Clothing"}
