package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/m2gi/ecom/internal/models"
)

func (r *GormRepo) CreateLine(ctx context.Context, line *models.ProductCart) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(line).Error
}

func (r *GormRepo) GetLine(ctx context.Context, id int64) (*models.ProductCart, error) {
	var line models.ProductCart
	if err := r.DB.WithContext(ctx).Preload("Product").First(&line, id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// SetLineQuantity overwrites the quantity as given; no bounds are applied.
func (r *GormRepo) SetLineQuantity(ctx context.Context, id int64, quantity int) (*models.ProductCart, error) {
	var line models.ProductCart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&line, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&line).Update("quantity", quantity).Error; err != nil {
			return err
		}
		return tx.Preload("Product").First(&line, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// DeleteLine removes a line and returns it as it was before deletion.
func (r *GormRepo) DeleteLine(ctx context.Context, id int64) (*models.ProductCart, error) {
	var line models.ProductCart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&line, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.ProductCart{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GormRepo) CountLines(ctx context.Context, cartID int64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.ProductCart{}).Where("cart_id = ?", cartID).Count(&n).Error
	return n, err
}
