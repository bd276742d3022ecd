package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is one catalogued entry of an inventory
type Item struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	InventoryID uuid.UUID `json:"inventoryId" db:"inventory_id" gorm:"type:uuid;not null;index:idx_item_inventory_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"not null"`

	Values []ItemValue `json:"values" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Item) TableName() string { return "items" }

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ValueFor returns the value row the item holds for a field
func (i *Item) ValueFor(fieldID uuid.UUID) (*ItemValue, bool) {
	for idx := range i.Values {
		if i.Values[idx].FieldID == fieldID {
			return &i.Values[idx], true
		}
	}
	return nil, false
}

// ItemValue stores the raw text of one item/field pair. A nil Value means the item
// holds nothing for the field.
type ItemValue struct {
	ID      uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ItemID  uuid.UUID `json:"itemId" db:"item_id" gorm:"type:uuid;not null;index:idx_item_field_item_id"`
	FieldID uuid.UUID `json:"fieldId" db:"field_id" gorm:"type:uuid;not null;index:idx_item_field_field_id"`
	Value   *string   `json:"value" db:"value" gorm:"type:text"`

	Field *Field `json:"field,omitempty" gorm:"foreignKey:FieldID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (ItemValue) TableName() string { return "item_fields" }

func (v *ItemValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
