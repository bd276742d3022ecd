package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FieldRepo struct {
	db *gorm.DB
}

func NewFieldRepo(db *gorm.DB) *FieldRepo {
	return &FieldRepo{db}
}

// FindByID returns a field by its ID
func (r *FieldRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Field, error) {
	var field models.Field
	if err := r.db.WithContext(ctx).First(&field, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

// FindByInventory returns the schema of an inventory in display order
func (r *FieldRepo) FindByInventory(ctx context.Context, inventoryID uuid.UUID) ([]models.Field, error) {
	var fields []models.Field
	err := r.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order(fieldOrder).
		Find(&fields).Error
	return fields, err
}

// Add inserts fields. The (inventory_id, field_name) unique index rejects duplicates.
func (r *FieldRepo) Add(ctx context.Context, fields ...*models.Field) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(fields).Error
}

// Rename sets the name of a field. Values reference fields by id and are not touched.
func (r *FieldRepo) Rename(ctx context.Context, id uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).Model(&models.Field{}).Where("id = ?", id).Update("field_name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountValues returns how many value rows reference the field
func (r *FieldRepo) CountValues(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ItemValue{}).Where("field_id = ?", id).Count(&count).Error
	return count, err
}
