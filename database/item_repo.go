package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/inventory-catalog/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db}
}

// FindByID returns an item with its values
func (r *ItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).Preload("Values").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add inserts an item and its value rows
func (r *ItemRepo) Add(ctx context.Context, item *models.Item) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return err
	}
	if len(item.Values) == 0 {
		return nil
	}
	for i := range item.Values {
		item.Values[i].ItemID = item.ID
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&item.Values).Error
}

// SetValue replaces the raw text of one value row
func (r *ItemRepo) SetValue(ctx context.Context, valueID uuid.UUID, raw *string) error {
	res := r.db.WithContext(ctx).Model(&models.ItemValue{}).Where("id = ?", valueID).Update("value", raw)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
