package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/m2gi/ecom/internal/models"
)

func preloadCart(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("creation_datetime ASC, id ASC") }).
		Preload("Lines.Product").
		Preload("User")
}

// CreateCart inserts an empty cart; lines are managed through the line operations.
func (r *GormRepo) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(cart).Error
}

func (r *GormRepo) CartExists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.DB, &models.Cart{}, id)
}

func (r *GormRepo) GetCart(ctx context.Context, id int64) (*models.Cart, error) {
	var cart models.Cart
	if err := preloadCart(r.DB.WithContext(ctx)).First(&cart, id).Error; err != nil {
		return nil, err
	}
	cart.LinkLines()
	return &cart, nil
}

func (r *GormRepo) GetCarts(ctx context.Context) ([]models.Cart, error) {
	var carts []models.Cart
	if err := preloadCart(r.DB.WithContext(ctx)).Order("id ASC").Find(&carts).Error; err != nil {
		return nil, err
	}
	for i := range carts {
		carts[i].LinkLines()
	}
	return carts, nil
}

func (r *GormRepo) GetCartsWithoutUser(ctx context.Context) ([]models.Cart, error) {
	owned := r.DB.Model(&models.UserDetails{}).Select("cart_id").Where("cart_id IS NOT NULL")

	var carts []models.Cart
	if err := preloadCart(r.DB.WithContext(ctx)).
		Where("id NOT IN (?)", owned).
		Order("id ASC").
		Find(&carts).Error; err != nil {
		return nil, err
	}
	for i := range carts {
		carts[i].LinkLines()
	}
	return carts, nil
}

// GetCartByLogin loads the cart owned by login with lines and products.
func (r *GormRepo) GetCartByLogin(ctx context.Context, login string) (*models.Cart, error) {
	var details models.UserDetails
	if err := r.DB.WithContext(ctx).Where("login = ?", login).First(&details).Error; err != nil {
		return nil, err
	}
	if details.CartID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetCart(ctx, *details.CartID)
}

func (r *GormRepo) DeleteCart(ctx context.Context, id int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.ProductCart{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.UserDetails{}).Where("cart_id = ?", id).Update("cart_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Cart{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// EmptyCart bulk-deletes the lines of a cart and returns how many were removed.
func (r *GormRepo) EmptyCart(ctx context.Context, cartID int64) (int64, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.ProductCart{})
	return res.RowsAffected, res.Error
}
