package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	fieldOrder = "display_order ASC, created_at ASC"
	itemOrder  = "created_at ASC"
)

// InventoryFilter narrows a listing. Zero values do not restrict; set filters combine
// with AND.
type InventoryFilter struct {
	Query      string     // case-sensitive substring of the title
	CategoryID *uuid.UUID // exact category
	Tag        string     // exact tag name
}

type InventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) *InventoryRepo {
	return &InventoryRepo{db}
}

// FindByID returns the inventory row without associations
func (r *InventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var inventory models.Inventory
	if err := r.db.WithContext(ctx).First(&inventory, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inventory, nil
}

// FindWithFields returns the inventory and its schema
func (r *InventoryRepo) FindWithFields(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var inventory models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order(fieldOrder) }).
		First(&inventory, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

// FindDetails materialises the inventory with its category, ordered fields, items with
// their values (each joined to its field) and tags
func (r *InventoryRepo) FindDetails(ctx context.Context, id uuid.UUID) (*models.Inventory, error) {
	var inventory models.Inventory
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order(fieldOrder) }).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order(itemOrder) }).
		Preload("Items.Values").
		Preload("Items.Values.Field").
		Preload("InventoryTags.Tag").
		First(&inventory, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inventory, nil
}

// List returns the inventories matching filter, newest first, with category and tags
func (r *InventoryRepo) List(ctx context.Context, filter InventoryFilter) ([]models.Inventory, error) {
	q := r.db.WithContext(ctx).Model(&models.Inventory{}).
		Preload("Category").
		Preload("InventoryTags.Tag")

	if filter.Query != "" {
		q = q.Where(titleContains(r.db), filter.Query)
	}
	if filter.CategoryID != nil {
		q = q.Where("inventories.category_id = ?", *filter.CategoryID)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM inventory_tags
			JOIN tags ON tags.id = inventory_tags.tag_id
			WHERE inventory_tags.inventory_id = inventories.id AND tags.name = ?)`, tag)
	}

	var inventories []models.Inventory
	err := q.Order("inventories.created_at DESC").Find(&inventories).Error
	return inventories, err
}

// titleContains picks a case-sensitive substring test for the connected dialect
func titleContains(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "strpos(inventories.title, ?) > 0"
	}
	return "instr(inventories.title, ?) > 0"
}

// Add inserts the inventory row only; fields and tag links are written separately
func (r *InventoryRepo) Add(ctx context.Context, inventory *models.Inventory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(inventory).Error
}

// LinkTags attaches tags to an inventory, ignoring links that already exist
func (r *InventoryRepo) LinkTags(ctx context.Context, inventoryID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.InventoryTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, models.InventoryTag{InventoryID: inventoryID, TagID: id})
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}

// UpdateDetails changes only the title and category of an inventory
func (r *InventoryRepo) UpdateDetails(ctx context.Context, id uuid.UUID, title string, categoryID *uuid.UUID) error {
	var category interface{}
	if categoryID != nil {
		category = *categoryID
	}
	res := r.db.WithContext(ctx).Model(&models.Inventory{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"category_id": category,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
