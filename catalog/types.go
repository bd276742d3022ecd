package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/models"
)

// FieldInput describes one schema slot. Type defaults to string, Visible to true and
// Order to the next free position.
type FieldInput struct {
	Name    string           `json:"name" validate:"required,max=120"`
	Type    models.FieldType `json:"type" validate:"omitempty,fieldtype"`
	Visible *bool            `json:"visible,omitempty"`
	Order   *int             `json:"order,omitempty"`
}

func (in FieldInput) normalized() FieldInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = models.FieldType(strings.TrimSpace(string(in.Type)))
	return in
}

func (in FieldInput) field(inventoryID uuid.UUID, defaultOrder int) *models.Field {
	f := &models.Field{
		InventoryID: inventoryID,
		Name:        in.Name,
		Type:        in.Type,
		Visible:     true,
		Order:       defaultOrder,
	}
	if f.Type == "" {
		f.Type = models.FieldTypeString
	}
	if in.Visible != nil {
		f.Visible = *in.Visible
	}
	if in.Order != nil {
		f.Order = *in.Order
	}
	return f
}

type CreateInventoryInput struct {
	Title      string       `json:"title" validate:"required,max=140"`
	CategoryID *uuid.UUID   `json:"categoryId,omitempty"`
	Fields     []FieldInput `json:"fields" validate:"dive"`
	Tags       []string     `json:"tags"`
}

func (in CreateInventoryInput) normalized() CreateInventoryInput {
	in.Title = strings.TrimSpace(in.Title)
	fields := make([]FieldInput, len(in.Fields))
	for i, f := range in.Fields {
		fields[i] = f.normalized()
	}
	in.Fields = fields
	return in
}

// UpdateInventoryInput replaces the title and category. A nil CategoryID clears the
// category.
type UpdateInventoryInput struct {
	Title      string     `json:"title" validate:"required,max=140"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
}

type renameFieldInput struct {
	Name string `json:"name" validate:"required,max=120"`
}

// ItemValues maps field ids to raw text. A nil entry stores no value for the field.
type ItemValues map[uuid.UUID]*string

// Filter narrows inventory listings; zero values match everything
type Filter struct {
	Query      string
	CategoryID *uuid.UUID
	Tag        string
}

// InventorySummary is a listing row
type InventorySummary struct {
	models.Inventory
	Tags []models.Tag `json:"tags"`
}

// InventoryDetails is the full read model of one inventory. Averages holds an entry for
// every number field, nil when no value parses.
type InventoryDetails struct {
	models.Inventory
	Tags     []models.Tag           `json:"tags"`
	Averages map[uuid.UUID]*float64 `json:"averages"`
	CanEdit  bool                   `json:"canEdit"`
}

// BrowseResult is a listing together with the reference data needed to refine it
type BrowseResult struct {
	Inventories []InventorySummary `json:"inventories"`
	Categories  []models.Category  `json:"categories"`
	Tags        []models.Tag       `json:"tags"`
}
