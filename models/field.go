package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxFieldNameLength is the longest field name accepted
const MaxFieldNameLength = 120

// FieldType declares how the raw text of a Value should be read. It is never enforced
// when values are written.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeText    FieldType = "text"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeLink    FieldType = "link"
)

var fieldTypes = map[FieldType]struct{}{
	FieldTypeString:  {},
	FieldTypeNumber:  {},
	FieldTypeText:    {},
	FieldTypeBoolean: {},
	FieldTypeDate:    {},
	FieldTypeLink:    {},
}

func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// Field is one schema slot of an inventory
type Field struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	InventoryID uuid.UUID `json:"inventoryId" db:"inventory_id" gorm:"type:uuid;not null;uniqueIndex:idx_inventory_field_name,priority:1"`
	Name        string    `json:"name" db:"field_name" gorm:"column:field_name;type:varchar(120);not null;uniqueIndex:idx_inventory_field_name,priority:2"`
	Type        FieldType `json:"type" db:"field_type" gorm:"column:field_type;type:varchar(20);not null;default:'string'"`
	Visible     bool      `json:"visible" db:"is_visible" gorm:"column:is_visible;not null"`
	Order       int       `json:"order" db:"display_order" gorm:"column:display_order;not null;default:0"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (Field) TableName() string { return "inventory_fields" }

func (f *Field) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
