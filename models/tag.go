package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTagNameLength is the longest tag name accepted after normalisation
const MaxTagNameLength = 60

// Tag is a free-text label shared by every inventory that uses the same normalised name
type Tag struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:varchar(60);not null;uniqueIndex:idx_tag_name"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// InventoryTag links an inventory to a tag
type InventoryTag struct {
	InventoryID uuid.UUID `json:"inventoryId" db:"inventory_id" gorm:"type:uuid;primaryKey;not null"`
	TagID       uuid.UUID `json:"tagId" db:"tag_id" gorm:"type:uuid;primaryKey;not null;index:idx_inventory_tag_tag_id"`

	Tag Tag `json:"tag" gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE"`
}

func (InventoryTag) TableName() string { return "inventory_tags" }
