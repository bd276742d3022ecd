package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTitleLength is the longest inventory title accepted
const MaxTitleLength = 140

// Inventory is a user-defined collection. Its Fields act as the schema for the Values
// of its Items.
type Inventory struct {
	ID         uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title      string     `json:"title" db:"title" gorm:"type:varchar(140);not null"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty" db:"category_id" gorm:"type:uuid;index:idx_inventory_category_id"`
	OwnerID    string     `json:"ownerId" db:"owner_id" gorm:"type:text;not null;index:idx_inventory_owner_id"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at" gorm:"not null"`

	Category      *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:RESTRICT"`
	Fields        []Field        `json:"fields,omitempty" gorm:"foreignKey:InventoryID;references:ID;constraint:OnDelete:CASCADE"`
	Items         []Item         `json:"items,omitempty" gorm:"foreignKey:InventoryID;references:ID;constraint:OnDelete:CASCADE"`
	InventoryTags []InventoryTag `json:"-" gorm:"foreignKey:InventoryID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Inventory) TableName() string { return "inventories" }

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Tags returns the linked tags sorted by name. Links must have been preloaded with
// their Tag.
func (i *Inventory) Tags() []Tag {
	tags := make([]Tag, 0, len(i.InventoryTags))
	for _, link := range i.InventoryTags {
		tags = append(tags, link.Tag)
	}
	sort.Slice(tags, func(a, b int) bool { return tags[a].Name < tags[b].Name })
	return tags
}

// FieldByID looks up one of the inventory's loaded fields
func (i *Inventory) FieldByID(id uuid.UUID) (*Field, bool) {
	for idx := range i.Fields {
		if i.Fields[idx].ID == id {
			return &i.Fields[idx], true
		}
	}
	return nil, false
}

// HasFieldNamed reports whether a loaded field already uses name, ignoring the field
// with id except (pass uuid.Nil to check every field).
func (i *Inventory) HasFieldNamed(name string, except uuid.UUID) bool {
	for _, f := range i.Fields {
		if f.ID != except && f.Name == name {
			return true
		}
	}
	return false
}
